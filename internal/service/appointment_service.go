package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
	"github.com/agusmolina/turnero/internal/repository"
)

type AppointmentService struct {
	apptRepo    *repository.AppointmentRepository
	patientRepo *repository.PatientRepository
	profRepo    *repository.ProfessionalRepository
	logger      *zap.Logger
}

func NewAppointmentService(
	apptRepo *repository.AppointmentRepository,
	patientRepo *repository.PatientRepository,
	profRepo *repository.ProfessionalRepository,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		profRepo:    profRepo,
		logger:      logger,
	}
}

// Calendar proyecta los turnos del rango [from, to] (días enteros) a los
// eventos que consume el widget de calendario.
func (s *AppointmentService) Calendar(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	// El rango viene con granularidad de día; el fin es inclusivo
	appts, err := s.apptRepo.GetByRange(ctx, startOfDay(from), startOfDay(to).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("calendar range: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(appts))
	for _, appt := range appts {
		events = append(events, model.CalendarEvent{
			ID:       appt.ID,
			Title:    eventTitle(appt),
			Start:    appt.AppointmentDatetime,
			End:      appt.End(),
			Resource: *appt,
		})
	}

	return events, nil
}

// Get trae un turno por id
func (s *AppointmentService) Get(ctx context.Context, id string) (*model.Appointment, error) {
	return s.apptRepo.GetByID(ctx, id)
}

// Create valida las referencias y da de alta el turno
func (s *AppointmentService) Create(ctx context.Context, in *model.AppointmentInput) (*model.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("validate appointment: %w", err)
	}

	// Las referencias tienen que existir antes de insertar
	if _, err := s.patientRepo.GetByID(ctx, in.Patient); err != nil {
		return nil, fmt.Errorf("resolve patient %s: %w", in.Patient, err)
	}
	if _, err := s.profRepo.GetByID(ctx, in.Professional); err != nil {
		return nil, fmt.Errorf("resolve professional %s: %w", in.Professional, err)
	}

	id, err := s.apptRepo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment created",
		zap.String("appointment_id", id),
		zap.String("patient_id", in.Patient),
		zap.String("professional_id", in.Professional),
		zap.Time("datetime", in.AppointmentDatetime))

	return s.apptRepo.GetByID(ctx, id)
}

// Update aplica un patch parcial y devuelve el turno actualizado
func (s *AppointmentService) Update(ctx context.Context, id string, patch *model.AppointmentPatch) (*model.Appointment, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("validate patch: %w", err)
	}

	if patch.Patient != nil {
		if _, err := s.patientRepo.GetByID(ctx, *patch.Patient); err != nil {
			return nil, fmt.Errorf("resolve patient %s: %w", *patch.Patient, err)
		}
	}
	if patch.Professional != nil {
		if _, err := s.profRepo.GetByID(ctx, *patch.Professional); err != nil {
			return nil, fmt.Errorf("resolve professional %s: %w", *patch.Professional, err)
		}
	}

	if err := s.apptRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment updated", zap.String("appointment_id", id))

	return s.apptRepo.GetByID(ctx, id)
}

// Delete borra el turno
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.apptRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Appointment deleted", zap.String("appointment_id", id))
	return nil
}

// UpcomingDay trae los turnos programados de un día, para los recordatorios
func (s *AppointmentService) UpcomingDay(ctx context.Context, day time.Time) ([]*model.Appointment, error) {
	from := startOfDay(day)
	appts, err := s.apptRepo.GetByRange(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("upcoming day: %w", err)
	}

	scheduled := appts[:0]
	for _, appt := range appts {
		if appt.Status == model.StatusProgramado {
			scheduled = append(scheduled, appt)
		}
	}
	return scheduled, nil
}

func eventTitle(appt *model.Appointment) string {
	if appt.Patient.Lastname == "" {
		return appt.Patient.Firstname
	}
	return appt.Patient.Lastname + ", " + appt.Patient.Firstname
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
