package render

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Entry один слот на недельной картинке расписания
type Entry struct {
	Topic    string
	Start    time.Time
	End      time.Time
	InPerson bool
}

// Константы размеров и отступов
const (
	imageWidth      = 1120
	imageHeight     = 760
	headerHeight    = 60
	leftLabelsWidth = 60
	dayPaddingX     = 6
	minEntryHeight  = 14.0
	totalDays       = 7
	minHour         = 8
	maxHour         = 23
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 255}
	hourLineColor  = color.NRGBA{200, 200, 200, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{228, 228, 228, 255}
	onlineColor    = color.RGBA{133, 193, 85, 230}
	inPersonColor  = color.RGBA{125, 170, 235, 230}
	entryTextColor = color.RGBA{20, 24, 28, 255}
)

// WeekPNG рисует расписание на неделю начиная с weekStart (понедельник).
// Слоты вне диапазона недели или часов [minHour, maxHour] обрезаются
func WeekPNG(weekStart time.Time, entries []Entry) ([]byte, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := float64(imageWidth-leftLabelsWidth) / totalDays
	gridHeight := float64(imageHeight - headerHeight)
	hourHeight := gridHeight / float64(maxHour-minHour)

	// Колонки дней с чередующейся заливкой и подписями
	for day := 0; day < totalDays; day++ {
		x := float64(leftLabelsWidth) + float64(day)*dayWidth

		if day%2 == 0 {
			dc.SetColor(evenDayColor)
		} else {
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, headerHeight, dayWidth, gridHeight)
		dc.Fill()

		label := weekStart.AddDate(0, 0, day).Format("Mon 01-02")
		dc.SetColor(textColor)
		dc.DrawStringAnchored(label, x+dayWidth/2, headerHeight/2, 0.5, 0.5)
	}

	// Горизонтальные линии часов с подписями слева
	for hour := minHour; hour <= maxHour; hour++ {
		y := float64(headerHeight) + float64(hour-minHour)*hourHeight

		dc.SetColor(hourLineColor)
		dc.SetLineWidth(1)
		dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
		dc.Stroke()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(strconv.Itoa(hour)+":00", leftLabelsWidth-8, y, 1, 0.5)
	}

	weekEnd := weekStart.AddDate(0, 0, totalDays)
	for _, entry := range entries {
		if entry.Start.Before(weekStart) || !entry.Start.Before(weekEnd) {
			continue
		}

		day := int(entry.Start.Sub(weekStart).Hours() / 24)
		if day < 0 || day >= totalDays {
			continue
		}

		startHour := float64(entry.Start.Hour()) + float64(entry.Start.Minute())/60
		endHour := float64(entry.End.Hour()) + float64(entry.End.Minute())/60
		if endHour <= float64(minHour) || startHour >= float64(maxHour) {
			continue
		}
		if startHour < float64(minHour) {
			startHour = float64(minHour)
		}
		if endHour > float64(maxHour) {
			endHour = float64(maxHour)
		}

		x := float64(leftLabelsWidth) + float64(day)*dayWidth + dayPaddingX
		y := float64(headerHeight) + (startHour-float64(minHour))*hourHeight
		height := (endHour - startHour) * hourHeight
		if height < minEntryHeight {
			height = minEntryHeight
		}

		if entry.InPerson {
			dc.SetColor(inPersonColor)
		} else {
			dc.SetColor(onlineColor)
		}
		dc.DrawRoundedRectangle(x, y, dayWidth-2*dayPaddingX, height, 4)
		dc.Fill()

		dc.SetColor(entryTextColor)
		caption := entry.Start.Format("15:04") + " " + entry.Topic
		dc.DrawStringAnchored(caption, x+(dayWidth-2*dayPaddingX)/2, y+height/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
