package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
)

func writeTestEnvelope(t *testing.T, w http.ResponseWriter, status int, data interface{}, message string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"data":    data,
		"message": message,
		"status":  status,
	})
	require.NoError(t, err)
}

func TestClientCalendar(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	events := []model.CalendarEvent{{
		ID:    "e1",
		Title: "Gómez, Juan",
		Start: start,
		End:   start.Add(30 * time.Minute),
		Resource: model.Appointment{
			ID:                  "e1",
			Patient:             model.PatientRef{ID: "p1"},
			Professional:        model.ProfessionalRef{ID: "pr1"},
			AppointmentDatetime: start,
			Duration:            30,
			Status:              model.StatusProgramado,
		},
	}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/appointments/calendar", r.URL.Path)
		assert.Equal(t, "2024-03-11", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-03-17", r.URL.Query().Get("end"))
		assert.Equal(t, "Bearer secreto", r.Header.Get("Authorization"))

		writeTestEnvelope(t, w, http.StatusOK, events, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secreto", 5*time.Second, zap.NewNop())

	got, err := client.Calendar(context.Background(), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "Gómez, Juan", got[0].Title)
	assert.True(t, got[0].Start.Equal(start))
	assert.Equal(t, 30, got[0].Resource.Duration)
}

func TestClientCalendarRejectsMalformedEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Evento sin end: no pasa la validación de entrada
		writeTestEnvelope(t, w, http.StatusOK, []map[string]interface{}{
			{"id": "e1", "start": "2024-03-13T09:00:00Z"},
		}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())

	_, err := client.Calendar(context.Background(), time.Now(), time.Now().AddDate(0, 0, 6))
	assert.Error(t, err)
}

func TestClientUpdateSendsPartialPatch(t *testing.T) {
	var body map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appointments/e1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		writeTestEnvelope(t, w, http.StatusOK, model.Appointment{ID: "e1"}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())

	newStart := time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC)
	patch := &model.AppointmentPatch{AppointmentDatetime: &newStart}

	_, err := client.Update(context.Background(), "e1", patch)
	require.NoError(t, err)

	// Solo viaja el campo seteado; el resto se omite, no va en null
	assert.Equal(t, "2024-03-22T10:00:00Z", body["appointmentDatetime"])
	assert.NotContains(t, body, "duration")
	assert.NotContains(t, body, "status")
}

func TestClientCreate(t *testing.T) {
	var body map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appointments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		writeTestEnvelope(t, w, http.StatusCreated, model.Appointment{ID: "new-id"}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())

	in := &model.AppointmentInput{
		Patient:             "p1",
		Professional:        "pr1",
		AppointmentDatetime: time.Date(2024, 3, 14, 16, 0, 0, 0, time.UTC),
		Duration:            45,
		Status:              model.StatusProgramado,
	}

	appt, err := client.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "new-id", appt.ID)

	// Referencias como ids pelados y sin campo id
	assert.Equal(t, "p1", body["patient"])
	assert.Equal(t, "pr1", body["professional"])
	assert.NotContains(t, body, "id")
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTestEnvelope(t, w, http.StatusNotFound, nil, "Turno no encontrado")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())

	_, err := client.Get(context.Background(), "nope")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Turno no encontrado", apiErr.Message)
}

func TestClientDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/appointments/e1", r.URL.Path)

		writeTestEnvelope(t, w, http.StatusOK, map[string]string{"id": "e1"}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())
	assert.NoError(t, client.Delete(context.Background(), "e1"))
}

func TestClientTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	// Un backend colgado corta con error en vez de esperar para siempre
	client := NewClient(srv.URL, "", 50*time.Millisecond, zap.NewNop())

	_, err := client.Calendar(context.Background(), time.Now(), time.Now().AddDate(0, 0, 6))
	assert.Error(t, err)
}

func TestClientDropdowns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/patients/dropdown":
			writeTestEnvelope(t, w, http.StatusOK, []model.DropdownOption{
				{Value: "p1", Text: "Gómez, Juan", ID: "p1"},
			}, "")
		case "/professionals/dropdown":
			writeTestEnvelope(t, w, http.StatusOK, []model.DropdownOption{
				{Value: "pr1", Text: "Suárez, Marta", ID: "pr1"},
			}, "")
		default:
			writeTestEnvelope(t, w, http.StatusNotFound, nil, "no existe")
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 5*time.Second, zap.NewNop())

	patients, err := client.PatientsDropdown(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Gómez, Juan", patients[0].Text)

	professionals, err := client.ProfessionalsDropdown(context.Background())
	require.NoError(t, err)
	require.Len(t, professionals, 1)
	assert.Equal(t, "Suárez, Marta", professionals[0].Text)
}
