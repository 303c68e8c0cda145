package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agusmolina/turnero/internal/model"
)

type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

// Create da de alta un paciente (alta rápida desde el modal de turnos)
func (r *PatientRepository) Create(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	patient := &model.Patient{
		ID:        uuid.NewString(),
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
		Phone:     in.Phone,
		Email:     in.Email,
	}

	query := `
		INSERT INTO patients (id, firstname, lastname, phone, email)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING register_date
	`

	err := r.pool.QueryRow(
		ctx, query,
		patient.ID,
		patient.Firstname,
		patient.Lastname,
		patient.Phone,
		patient.Email,
	).Scan(&patient.RegisterDate)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	return patient, nil
}

// GetByID trae un paciente por id
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	query := `
		SELECT id, firstname, lastname, COALESCE(email, ''), COALESCE(date_of_birth::text, ''), COALESCE(phone, ''), register_date
		FROM patients
		WHERE id = $1
	`

	var patient model.Patient
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&patient.ID,
		&patient.Firstname,
		&patient.Lastname,
		&patient.Email,
		&patient.DateOfBirth,
		&patient.Phone,
		&patient.RegisterDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get patient by id: %w", err)
	}

	return &patient, nil
}

// Dropdown lista los pacientes como opciones {value, text, id} para el modal
func (r *PatientRepository) Dropdown(ctx context.Context) ([]model.DropdownOption, error) {
	query := `
		SELECT id, firstname, lastname
		FROM patients
		ORDER BY lastname ASC, firstname ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list patients dropdown: %w", err)
	}
	defer rows.Close()

	var options []model.DropdownOption
	for rows.Next() {
		var id, firstname, lastname string
		if err := rows.Scan(&id, &firstname, &lastname); err != nil {
			return nil, fmt.Errorf("scan patient option: %w", err)
		}
		options = append(options, model.DropdownOption{
			Value: id,
			Text:  lastname + ", " + firstname,
			ID:    id,
		})
	}

	return options, nil
}
