package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/service"
)

// Scheduler maneja las tareas de fondo del servicio de turnos
type Scheduler struct {
	apptService *service.AppointmentService
	logger      *zap.Logger
	stopChan    chan struct{}
}

// NewScheduler crea el planificador
func NewScheduler(apptService *service.AppointmentService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		apptService: apptService,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start lanza las tareas de fondo
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runReminderTask(ctx)
}

// Stop frena las tareas de fondo
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runReminderTask repasa una vez por día los turnos del día siguiente
func (s *Scheduler) runReminderTask(ctx context.Context) {
	// Primera pasada al arrancar
	s.remindTomorrow(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.remindTomorrow(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// remindTomorrow loguea los turnos programados de mañana
func (s *Scheduler) remindTomorrow(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1)

	appts, err := s.apptService.UpcomingDay(ctx, tomorrow)
	if err != nil {
		s.logger.Error("Failed to list tomorrow's appointments", zap.Error(err))
		return
	}

	s.logger.Info("Appointment reminders",
		zap.String("day", tomorrow.Format("2006-01-02")),
		zap.Int("scheduled", len(appts)))

	for _, appt := range appts {
		s.logger.Info("Reminder",
			zap.String("appointment_id", appt.ID),
			zap.String("patient", appt.Patient.Lastname+", "+appt.Patient.Firstname),
			zap.String("professional", appt.Professional.Lastname),
			zap.Time("datetime", appt.AppointmentDatetime))
	}
}
