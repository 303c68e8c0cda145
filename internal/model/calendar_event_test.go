package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewID(t *testing.T) {
	start := time.Date(2024, 3, 13, 11, 0, 0, 0, time.UTC)

	id := PreviewID("abc-123", start)
	assert.Equal(t, "abc-123_duplicated_1710327600", id)
	assert.Equal(t, "abc-123", OriginalID(id))
}

func TestOriginalIDPassthrough(t *testing.T) {
	// Un id normal vuelve igual
	assert.Equal(t, "abc-123", OriginalID("abc-123"))
}

func TestIsPreview(t *testing.T) {
	start := time.Date(2024, 3, 13, 11, 0, 0, 0, time.UTC)

	original := CalendarEvent{ID: "abc-123"}
	preview := CalendarEvent{ID: PreviewID("abc-123", start)}

	assert.False(t, original.IsPreview())
	assert.True(t, preview.IsPreview())
}

func TestNewPreviewEvent(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	newStart := time.Date(2024, 3, 13, 11, 0, 0, 0, time.UTC)
	newEnd := newStart.Add(30 * time.Minute)

	original := CalendarEvent{
		ID:    "abc-123",
		Title: "Gómez, Juan",
		Start: start,
		End:   start.Add(30 * time.Minute),
		Resource: Appointment{
			ID:                  "abc-123",
			AppointmentDatetime: start,
			Duration:            30,
		},
	}

	preview := NewPreviewEvent(original, newStart, newEnd)

	assert.True(t, preview.IsPreview())
	assert.Equal(t, "abc-123", OriginalID(preview.ID))
	assert.Equal(t, newStart, preview.Start)
	assert.Equal(t, newEnd, preview.End)
	assert.Equal(t, original.Title, preview.Title)

	// El original no se toca: el resource del preview apunta al mismo turno
	assert.Equal(t, start, original.Resource.AppointmentDatetime)
	assert.Equal(t, start, preview.Resource.AppointmentDatetime)
}

func TestCalendarEventValidate(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	valid := CalendarEvent{ID: "e1", Start: start, End: start.Add(time.Hour)}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		event CalendarEvent
	}{
		{"missing id", CalendarEvent{Start: start, End: start.Add(time.Hour)}},
		{"missing start", CalendarEvent{ID: "e1", End: start}},
		{"end before start", CalendarEvent{ID: "e1", Start: start, End: start.Add(-time.Hour)}},
		{"end equals start", CalendarEvent{ID: "e1", Start: start, End: start}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.event.Validate())
		})
	}
}
