package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func slotAt(day string, startHour, endHour int) TimeSlot {
	base := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	return TimeSlot{
		Day:   day,
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeSlotOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{
			name: "identical slots overlap",
			a:    slotAt("Monday", 10, 12),
			b:    slotAt("Monday", 10, 12),
			want: true,
		},
		{
			name: "partial overlap",
			a:    slotAt("Monday", 10, 12),
			b:    slotAt("Monday", 11, 13),
			want: true,
		},
		{
			name: "contained slot overlaps",
			a:    slotAt("Monday", 9, 15),
			b:    slotAt("Monday", 10, 11),
			want: true,
		},
		{
			name: "touching boundary does not overlap",
			a:    slotAt("Monday", 10, 12),
			b:    slotAt("Monday", 12, 14),
			want: false,
		},
		{
			name: "disjoint slots",
			a:    slotAt("Monday", 8, 9),
			b:    slotAt("Monday", 12, 14),
			want: false,
		},
		{
			name: "different days never overlap",
			a:    slotAt("Monday", 10, 12),
			b:    slotAt("Tuesday", 10, 12),
			want: false,
		},
		{
			name: "day comparison is case insensitive",
			a:    slotAt("monday", 10, 12),
			b:    slotAt("MONDAY", 11, 13),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeSlotEqual(t *testing.T) {
	a := slotAt("Monday", 10, 12)

	assert.True(t, a.Equal(slotAt("Monday", 10, 12)))
	assert.True(t, a.Equal(slotAt("MONDAY", 10, 12)))
	assert.False(t, a.Equal(slotAt("Monday", 10, 13)))
	assert.False(t, a.Equal(slotAt("Tuesday", 10, 12)))
}

func TestTimeSlotIsValid(t *testing.T) {
	assert.True(t, slotAt("Monday", 10, 12).IsValid())
	assert.False(t, slotAt("Monday", 12, 10).IsValid())
	assert.False(t, slotAt("Monday", 10, 10).IsValid(), "zero length slot is invalid")
}
