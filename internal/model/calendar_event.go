package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// previewMarker separa el id original del timestamp en los eventos
// sintéticos que previsualizan un drop pendiente de confirmación.
const previewMarker = "_duplicated_"

// CalendarEvent es la proyección del turno que consume el widget de
// calendario: start/end ya resueltos, título armado y el turno completo
// colgado en Resource.
type CalendarEvent struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	Resource Appointment `json:"resource"`
}

// Validate chequea la forma del evento decodificado de la API.
// No confiamos en el shape del payload: cada evento se valida al entrar.
func (e *CalendarEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return fmt.Errorf("event %s: start and end are required", e.ID)
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("event %s: end %s is not after start %s", e.ID, e.End, e.Start)
	}
	return nil
}

// IsPreview indica si el evento es una previsualización sintética de drop
func (e *CalendarEvent) IsPreview() bool {
	return strings.Contains(e.ID, previewMarker)
}

// NewPreviewEvent arma el evento sintético que muestra el slot destino de un
// drag sin mutar el original. El id deriva del original más el timestamp del
// nuevo inicio; nunca viaja al servidor.
func NewPreviewEvent(original CalendarEvent, start, end time.Time) CalendarEvent {
	return CalendarEvent{
		ID:       PreviewID(original.ID, start),
		Title:    original.Title,
		Start:    start,
		End:      end,
		Resource: original.Resource,
	}
}

// PreviewID deriva el id sintético de una previsualización
func PreviewID(originalID string, start time.Time) string {
	return originalID + previewMarker + strconv.FormatInt(start.Unix(), 10)
}

// OriginalID devuelve el id persistido detrás de un id sintético.
// Para ids normales devuelve el mismo id.
func OriginalID(id string) string {
	original, _, _ := strings.Cut(id, previewMarker)
	return original
}
