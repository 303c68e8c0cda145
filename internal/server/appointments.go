package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
	"github.com/agusmolina/turnero/internal/render"
	"github.com/agusmolina/turnero/internal/repository"
)

const dayLayout = "2006-01-02"

// parseRangeParams lee ?start=YYYY-MM-DD&end=YYYY-MM-DD
func parseRangeParams(r *http.Request) (time.Time, time.Time, error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end query params required (YYYY-MM-DD)")
	}

	start, err := time.Parse(dayLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q", startStr)
	}
	end, err := time.Parse(dayLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q", endStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end must be >= start")
	}

	return start, end, nil
}

// GetCalendar devuelve los eventos del rango pedido
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.appts.Calendar(r.Context(), start, end)
	if err != nil {
		h.logger.Error("calendar fetch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al buscar los turnos")
		return
	}

	writeData(w, http.StatusOK, events)
}

// GetCalendarImage renderiza el rango pedido como una grilla semanal PNG
func (h *Handler) GetCalendarImage(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.appts.Calendar(r.Context(), start, end)
	if err != nil {
		h.logger.Error("calendar fetch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al buscar los turnos")
		return
	}

	png, err := render.WeekImage(start, events)
	if err != nil {
		h.logger.Error("calendar render failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al generar la imagen")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// GetAppointment devuelve un turno por id
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	appt, err := h.appts.Get(r.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Turno no encontrado")
			return
		}
		h.logger.Error("get appointment failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al buscar el turno")
		return
	}

	writeData(w, http.StatusOK, appt)
}

// CreateAppointment da de alta un turno
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var in model.AppointmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo inválido")
		return
	}

	appt, err := h.appts.Create(r.Context(), &in)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusBadRequest, "Paciente o profesional inexistente")
			return
		}
		h.logger.Error("create appointment failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeData(w, http.StatusCreated, appt)
}

// UpdateAppointment aplica un patch parcial sobre un turno
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch model.AppointmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo inválido")
		return
	}

	appt, err := h.appts.Update(r.Context(), id, &patch)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Turno no encontrado")
			return
		}
		h.logger.Error("update appointment failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeData(w, http.StatusOK, appt)
}

// DeleteAppointment borra un turno
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.appts.Delete(r.Context(), id); err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Turno no encontrado")
			return
		}
		h.logger.Error("delete appointment failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al eliminar el turno")
		return
	}

	writeData(w, http.StatusOK, map[string]string{"id": id})
}
