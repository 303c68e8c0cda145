package agenda

import "time"

// View es la granularidad activa del calendario
type View string

const (
	ViewDay    View = "day"
	ViewWeek   View = "week"
	ViewMonth  View = "month"
	ViewAgenda View = "agenda"
)

// IsValid indica si la vista es una de las conocidas
func (v View) IsValid() bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth, ViewAgenda:
		return true
	}
	return false
}

// Direction es el sentido de navegación del calendario
type Direction int

const (
	Prev  Direction = -1
	Today Direction = 0
	Next  Direction = 1
)

// DateRange es la ventana [Start, End] de días enteros para la cual están
// cargados los turnos. Siempre se normaliza a medianoche.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains indica si el día de d cae dentro del rango
func (r DateRange) Contains(d time.Time) bool {
	day := startOfDay(d)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Equal compara dos rangos por día
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// RangeFor calcula el rango de días para una fecha ancla y una vista.
// La vista agenda no define rango propio: reutiliza el último calculado.
func RangeFor(date time.Time, view View, last DateRange) DateRange {
	day := startOfDay(date)

	switch view {
	case ViewDay:
		return DateRange{Start: day, End: day}
	case ViewWeek:
		monday := startOfWeek(day)
		return DateRange{Start: monday, End: monday.AddDate(0, 0, 6)}
	case ViewMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	default:
		return last
	}
}

// Navigate corre la fecha ancla una unidad de la vista activa, o vuelve a hoy
func Navigate(date time.Time, view View, dir Direction, now time.Time) time.Time {
	if dir == Today {
		return startOfDay(now)
	}

	step := int(dir)
	switch view {
	case ViewDay, ViewAgenda:
		return date.AddDate(0, 0, step)
	case ViewWeek:
		return date.AddDate(0, 0, 7*step)
	case ViewMonth:
		return date.AddDate(0, step, 0)
	default:
		return date
	}
}

// NormalizeRange lleva un rango reportado por el widget a límites de día.
// El rango del widget se toma tal cual, solo se reformatea.
func NormalizeRange(start, end time.Time) DateRange {
	s := startOfDay(start)
	e := startOfDay(end)
	if e.Before(s) {
		s, e = e, s
	}
	return DateRange{Start: s, End: e}
}

// startOfWeek devuelve el lunes de la semana que contiene d.
// El caso domingo (Weekday 0) retrocede 6 días, no avanza.
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
