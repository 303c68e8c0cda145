package model

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusProgramado AppointmentStatus = "Programado" // Turno agendado
	StatusCancelado  AppointmentStatus = "Cancelado"  // Turno cancelado
	StatusRealizado  AppointmentStatus = "Realizado"  // Turno ya atendido
)

// IsValid indica si el estado es uno de los conocidos
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusProgramado, StatusCancelado, StatusRealizado:
		return true
	}
	return false
}

// PatientRef referencia desnormalizada a un paciente para renderizar
type PatientRef struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ProfessionalRef referencia desnormalizada a un profesional
type ProfessionalRef struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Color     string `json:"color,omitempty"` // Hex para tintar el evento
}

// Appointment es el turno tal como lo expone el backend.
// El fin del turno nunca se persiste, siempre se recalcula con End().
type Appointment struct {
	ID                  string            `json:"id"`
	Patient             PatientRef        `json:"patient"`
	Professional        ProfessionalRef   `json:"professional"`
	AppointmentDatetime time.Time         `json:"appointmentDatetime"`
	Duration            int               `json:"duration"` // minutos
	Status              AppointmentStatus `json:"status"`
	Notes               string            `json:"notes,omitempty"`
	CreatedBy           string            `json:"createdBy,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
}

// End calcula el instante de fin del turno
func (a *Appointment) End() time.Time {
	return a.AppointmentDatetime.Add(time.Duration(a.Duration) * time.Minute)
}

// Validate chequea los invariantes mínimos del turno
func (a *Appointment) Validate() error {
	if a.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", a.Duration)
	}
	if a.Patient.ID == "" {
		return fmt.Errorf("patient is required")
	}
	if a.Professional.ID == "" {
		return fmt.Errorf("professional is required")
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("unknown status %q", a.Status)
	}
	if a.AppointmentDatetime.IsZero() {
		return fmt.Errorf("appointmentDatetime is required")
	}
	return nil
}

// AppointmentInput es el payload de creación: las referencias van como ids
// pelados, nunca como objetos desnormalizados.
type AppointmentInput struct {
	Patient             string            `json:"patient"`
	Professional        string            `json:"professional"`
	AppointmentDatetime time.Time         `json:"appointmentDatetime"`
	Duration            int               `json:"duration"`
	Status              AppointmentStatus `json:"status"`
	Notes               string            `json:"notes,omitempty"`
	CreatedBy           string            `json:"createdBy,omitempty"`
}

// Validate chequea el payload de creación
func (in *AppointmentInput) Validate() error {
	if in.Patient == "" {
		return fmt.Errorf("patient is required")
	}
	if in.Professional == "" {
		return fmt.Errorf("professional is required")
	}
	if in.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", in.Duration)
	}
	if in.Status == "" {
		return fmt.Errorf("status is required")
	}
	if !in.Status.IsValid() {
		return fmt.Errorf("unknown status %q", in.Status)
	}
	if in.AppointmentDatetime.IsZero() {
		return fmt.Errorf("appointmentDatetime is required")
	}
	return nil
}

// AppointmentPatch es la actualización parcial vía PATCH. Los campos nil no
// se tocan. Mover y el salto de semana usan solo datetime/duration; el modal
// de edición puede mandar el resto.
type AppointmentPatch struct {
	AppointmentDatetime *time.Time         `json:"appointmentDatetime,omitempty"`
	Duration            *int               `json:"duration,omitempty"`
	Patient             *string            `json:"patient,omitempty"`
	Professional        *string            `json:"professional,omitempty"`
	Status              *AppointmentStatus `json:"status,omitempty"`
	Notes               *string            `json:"notes,omitempty"`
}

// IsEmpty indica si el patch no modifica nada
func (p *AppointmentPatch) IsEmpty() bool {
	return p.AppointmentDatetime == nil && p.Duration == nil &&
		p.Patient == nil && p.Professional == nil &&
		p.Status == nil && p.Notes == nil
}

// Validate chequea los campos presentes del patch
func (p *AppointmentPatch) Validate() error {
	if p.IsEmpty() {
		return fmt.Errorf("empty patch")
	}
	if p.Duration != nil && *p.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", *p.Duration)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("unknown status %q", *p.Status)
	}
	return nil
}
