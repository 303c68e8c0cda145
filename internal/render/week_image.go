package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/agusmolina/turnero/internal/model"
)

// Constantes de tamaño y márgenes de la grilla
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	dayPaddingX     = 8
	minEventHeight  = 10.0
	eventRadius     = 6.0
	accentWidth     = 5.0
	totalDays       = 7

	// Franja horaria visible por defecto, igual que la agenda web
	defaultMinHour = 8
	defaultMaxHour = 20
)

// Esquema de colores
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 60}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	programadoColor = color.RGBA{133, 193, 85, 220}
	canceladoColor  = color.RGBA{158, 158, 158, 200}
	realizadoColor  = color.RGBA{137, 180, 250, 220}
	eventTextColor  = color.RGBA{20, 24, 28, 230}
	fallbackAccent  = color.RGBA{70, 74, 78, 255}
)

var weekdayNames = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// WeekImage dibuja los eventos de la semana que contiene weekStart en una
// grilla PNG de lunes a domingo. Es el sustituto del widget de calendario:
// solo dibuja, no sabe nada de interacciones.
func WeekImage(weekStart time.Time, events []model.CalendarEvent) ([]byte, error) {
	monday := startOfWeek(weekStart)
	today := startOfDay(time.Now())

	byDay := groupByDay(events, monday)
	hours := visibleHours(events)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := float64(imageWidth-leftLabelsWidth) / totalDays
	gridHeight := float64(imageHeight - headerHeight)
	hourHeight := gridHeight / float64(hours.total())

	// Columnas de fondo alternadas, con resaltado del día de hoy
	for day := 0; day < totalDays; day++ {
		x := float64(leftLabelsWidth) + float64(day)*dayWidth
		if day%2 == 0 {
			dc.SetColor(evenDayColor)
		} else {
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, headerHeight, dayWidth, gridHeight)
		dc.Fill()

		if monday.AddDate(0, 0, day).Equal(today) {
			dc.SetColor(todayBgColor)
			dc.DrawRectangle(x, headerHeight, dayWidth, gridHeight)
			dc.Fill()
		}
	}

	// Encabezado: día de la semana y fecha
	dc.SetColor(textColor)
	for day := 0; day < totalDays; day++ {
		x := float64(leftLabelsWidth) + float64(day)*dayWidth + dayWidth/2
		date := monday.AddDate(0, 0, day)
		dc.DrawStringAnchored(weekdayNames[day], x, headerHeight/2-10, 0.5, 0.5)
		dc.DrawStringAnchored(date.Format("02/01"), x, headerHeight/2+10, 0.5, 0.5)
	}

	// Líneas y etiquetas de hora
	for hour := hours.start; hour <= hours.end; hour++ {
		y := float64(headerHeight) + float64(hour-hours.start)*hourHeight

		dc.SetColor(hourLineColor)
		dc.SetLineWidth(0.5)
		dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
		dc.Stroke()

		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hour), leftLabelsWidth-10, y, 1, 0.5)
	}

	// Eventos
	for day := 0; day < totalDays; day++ {
		x := float64(leftLabelsWidth) + float64(day)*dayWidth
		for _, ev := range byDay[day] {
			drawEvent(dc, ev, x, dayWidth, hours, hourHeight)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}

	return buf.Bytes(), nil
}

// drawEvent dibuja un turno como caja redondeada con el color del estado y
// una barra de acento con el color del profesional.
func drawEvent(dc *gg.Context, ev model.CalendarEvent, dayX, dayWidth float64, hours hourRange, hourHeight float64) {
	startHours := float64(ev.Start.Hour()) + float64(ev.Start.Minute())/60
	endHours := float64(ev.End.Hour()) + float64(ev.End.Minute())/60
	if ev.End.Day() != ev.Start.Day() {
		endHours = float64(hours.end)
	}

	y := float64(headerHeight) + (startHours-float64(hours.start))*hourHeight
	height := (endHours - startHours) * hourHeight
	if height < minEventHeight {
		height = minEventHeight
	}

	x := dayX + dayPaddingX
	width := dayWidth - 2*dayPaddingX

	dc.SetColor(statusColor(ev.Resource.Status))
	dc.DrawRoundedRectangle(x, y, width, height, eventRadius)
	dc.Fill()

	dc.SetColor(parseHexColor(ev.Resource.Professional.Color))
	dc.DrawRectangle(x, y, accentWidth, height)
	dc.Fill()

	dc.SetColor(eventTextColor)
	label := ev.Start.Format("15:04") + "-" + ev.End.Format("15:04") + " " + ev.Title
	dc.DrawStringAnchored(label, x+width/2, y+height/2, 0.5, 0.5)
}

func statusColor(status model.AppointmentStatus) color.Color {
	switch status {
	case model.StatusCancelado:
		return canceladoColor
	case model.StatusRealizado:
		return realizadoColor
	default:
		return programadoColor
	}
}

// parseHexColor interpreta #rrggbb; si no se puede, usa el acento por defecto
func parseHexColor(hex string) color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return fallbackAccent
	}
	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return fallbackAccent
	}
	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 255,
	}
}

// groupByDay separa los eventos por día de la semana (0 = lunes)
func groupByDay(events []model.CalendarEvent, monday time.Time) [totalDays][]model.CalendarEvent {
	var byDay [totalDays][]model.CalendarEvent
	for _, ev := range events {
		day := int(startOfDay(ev.Start).Sub(monday).Hours() / 24)
		if day >= 0 && day < totalDays {
			byDay[day] = append(byDay[day], ev)
		}
	}
	return byDay
}

// visibleHours calcula la franja horaria a dibujar: 8 a 20 por defecto,
// extendida si algún evento queda afuera
func visibleHours(events []model.CalendarEvent) hourRange {
	hours := hourRange{start: defaultMinHour, end: defaultMaxHour}
	for _, ev := range events {
		if ev.Start.Hour() < hours.start {
			hours.start = ev.Start.Hour()
		}
		if h := ev.End.Hour() + 1; h > hours.end {
			hours.end = h
		}
	}
	if hours.end > 24 {
		hours.end = 24
	}
	return hours
}

func startOfWeek(d time.Time) time.Time {
	day := startOfDay(d)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
