package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
)

// PatientsDropdown lista pacientes para el select del modal
func (h *Handler) PatientsDropdown(w http.ResponseWriter, r *http.Request) {
	options, err := h.dir.PatientsDropdown(r.Context())
	if err != nil {
		h.logger.Error("patients dropdown failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al buscar los pacientes")
		return
	}

	writeData(w, http.StatusOK, options)
}

// ProfessionalsDropdown lista profesionales para el select del modal
func (h *Handler) ProfessionalsDropdown(w http.ResponseWriter, r *http.Request) {
	options, err := h.dir.ProfessionalsDropdown(r.Context())
	if err != nil {
		h.logger.Error("professionals dropdown failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error al buscar los profesionales")
		return
	}

	writeData(w, http.StatusOK, options)
}

// CreatePatient alta rápida de paciente desde el modal de turnos
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var in model.PatientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo inválido")
		return
	}

	patient, err := h.dir.CreatePatient(r.Context(), &in)
	if err != nil {
		h.logger.Error("create patient failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeData(w, http.StatusCreated, patient)
}
