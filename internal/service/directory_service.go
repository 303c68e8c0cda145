package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
	"github.com/agusmolina/turnero/internal/repository"
)

// DirectoryService resuelve los listados que consumen los selects del modal
// de turnos y el alta rápida de pacientes.
type DirectoryService struct {
	patientRepo *repository.PatientRepository
	profRepo    *repository.ProfessionalRepository
	logger      *zap.Logger
}

func NewDirectoryService(
	patientRepo *repository.PatientRepository,
	profRepo *repository.ProfessionalRepository,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		patientRepo: patientRepo,
		profRepo:    profRepo,
		logger:      logger,
	}
}

// PatientsDropdown lista pacientes como opciones de select
func (s *DirectoryService) PatientsDropdown(ctx context.Context) ([]model.DropdownOption, error) {
	return s.patientRepo.Dropdown(ctx)
}

// ProfessionalsDropdown lista profesionales como opciones de select
func (s *DirectoryService) ProfessionalsDropdown(ctx context.Context) ([]model.DropdownOption, error) {
	return s.profRepo.Dropdown(ctx)
}

// CreatePatient da de alta un paciente desde el modal de turnos
func (s *DirectoryService) CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	if in.Firstname == "" || in.Lastname == "" {
		return nil, fmt.Errorf("firstname and lastname are required")
	}

	patient, err := s.patientRepo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Patient created",
		zap.String("patient_id", patient.ID),
		zap.String("lastname", patient.Lastname))

	return patient, nil
}
