package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zoeyai1221/studybuddy_bot/internal/model"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository"
	"github.com/zoeyai1221/studybuddy_bot/internal/repository/memory"
	"go.uber.org/zap"
)

// Фиксированный момент времени для детерминированных тестов
var testNow = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)

// fakeNotifier собирает доставленные сообщения. Доставка асинхронная,
// поэтому рядом с журналом есть канал для ожидания в тестах
type fakeNotifier struct {
	mu        sync.Mutex
	delivered []string
	ch        chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan string, 16)}
}

func (n *fakeNotifier) Deliver(_ context.Context, _ model.Student, message string) error {
	n.mu.Lock()
	n.delivered = append(n.delivered, message)
	n.mu.Unlock()
	n.ch <- message
	return nil
}

// waitForDelivery ждёт одну асинхронную доставку
func (n *fakeNotifier) waitForDelivery(t *testing.T) string {
	t.Helper()
	select {
	case message := <-n.ch:
		return message
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reminder delivery")
		return ""
	}
}

type fixture struct {
	meetings  *MeetingService
	reminders *ReminderService
	bookings  *BookingService
	groups    *GroupService
	students  *StudentService
	notifier  *fakeNotifier

	meetingRepo  repository.MeetingRepository
	reminderRepo repository.ReminderRepository
	roomRepo     repository.RoomRepository
	bookingRepo  repository.BookingRepository
	studentRepo  repository.StudentRepository
	groupRepo    repository.StudyGroupRepository
}

// newFixture собирает все сервисы поверх хранилищ в памяти
// с замороженным временем testNow
func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	notifier := newFakeNotifier()

	fx := &fixture{
		notifier:     notifier,
		meetingRepo:  memory.NewMeetingRepository(),
		reminderRepo: memory.NewReminderRepository(),
		roomRepo:     memory.NewRoomRepository(),
		bookingRepo:  memory.NewBookingRepository(),
		studentRepo:  memory.NewStudentRepository(),
		groupRepo:    memory.NewStudyGroupRepository(),
	}

	fx.bookings = NewBookingService(fx.roomRepo, fx.bookingRepo, fx.meetingRepo, logger)
	fx.reminders = NewReminderService(fx.reminderRepo, fx.meetingRepo, fx.groupRepo, fx.studentRepo, notifier, logger)
	fx.meetings = NewMeetingService(fx.meetingRepo, fx.studentRepo, fx.reminders, fx.bookings, logger)
	fx.groups = NewGroupService(fx.groupRepo, fx.studentRepo, fx.meetings, fx.reminders, logger)
	fx.students = NewStudentService(fx.studentRepo, logger)

	fx.meetings.now = func() time.Time { return testNow }
	fx.reminders.now = func() time.Time { return testNow }

	return fx
}

// addStudent создаёт студента, при reminderMin > 0 с предпочтением напоминаний
func (fx *fixture) addStudent(t *testing.T, name string, reminderMin int) *model.Student {
	t.Helper()

	student := &model.Student{
		ID:          uuid.New(),
		DisplayName: name,
		TelegramID:  time.Now().UnixNano(),
	}
	if reminderMin > 0 {
		student.ReminderMin = &reminderMin
	}

	require.NoError(t, fx.studentRepo.Create(context.Background(), student))
	return student
}

// addGroup создаёт группу с лидером и указанными участниками
func (fx *fixture) addGroup(t *testing.T, leader *model.Student, members ...*model.Student) *model.StudyGroup {
	t.Helper()
	ctx := context.Background()

	group := &model.StudyGroup{
		ID:       uuid.New(),
		Name:     "Algorithms Club",
		LeaderID: leader.ID,
	}
	require.NoError(t, fx.groups.CreateGroup(ctx, group))

	for _, member := range members {
		require.NoError(t, fx.groups.JoinGroup(ctx, member, group.ID))
	}
	return group
}

// addMeeting создаёт встречу группы с указанной серией слотов
func (fx *fixture) addMeeting(t *testing.T, group *model.StudyGroup, organizer *model.Student, frequency model.Frequency, slots []model.TimeSlot) *model.Meeting {
	t.Helper()

	meeting := &model.Meeting{
		ID:           uuid.New(),
		Topic:        "Dynamic programming drills",
		Frequency:    frequency,
		Occurrences:  slots,
		StudyGroupID: group.ID,
		OrganizerID:  organizer.ID,
		Kind:         model.MeetingOnline,
		MeetingLink:  "https://meet.example.com/dp",
	}
	require.NoError(t, fx.meetings.CreateMeeting(context.Background(), meeting))
	return meeting
}

// futureSlots строит серию часовых слотов с шагом в днях начиная
// от testNow + startOffset
func futureSlots(startOffset time.Duration, stepDays, count int) []model.TimeSlot {
	slots := make([]model.TimeSlot, count)
	start := testNow.Add(startOffset)
	for i := range slots {
		s := start.AddDate(0, 0, i*stepDays)
		slots[i] = model.TimeSlot{
			Day:   s.Weekday().String(),
			Start: s,
			End:   s.Add(time.Hour),
		}
	}
	return slots
}
