package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agusmolina/turnero/internal/model"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// columnas del turno con las referencias desnormalizadas ya joineadas
const appointmentColumns = `
	a.id, a.appointment_datetime, a.duration, a.status,
	COALESCE(a.notes, ''), COALESCE(a.created_by::text, ''), a.created_at,
	p.id, p.firstname, p.lastname, COALESCE(p.phone, ''),
	pr.id, pr.firstname, pr.lastname, COALESCE(pr.color, '')
`

const appointmentJoins = `
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN professionals pr ON pr.id = a.professional_id
`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.AppointmentDatetime,
		&appt.Duration,
		&appt.Status,
		&appt.Notes,
		&appt.CreatedBy,
		&appt.CreatedAt,
		&appt.Patient.ID,
		&appt.Patient.Firstname,
		&appt.Patient.Lastname,
		&appt.Patient.Phone,
		&appt.Professional.ID,
		&appt.Professional.Firstname,
		&appt.Professional.Lastname,
		&appt.Professional.Color,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Create crea un turno nuevo a partir del payload de ids pelados
func (r *AppointmentRepository) Create(ctx context.Context, in *model.AppointmentInput) (string, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO appointments (id, patient_id, professional_id, appointment_datetime, duration, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, '')::uuid)
	`

	_, err := r.pool.Exec(
		ctx, query,
		id,
		in.Patient,
		in.Professional,
		in.AppointmentDatetime,
		in.Duration,
		in.Status,
		in.Notes,
		in.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("create appointment: %w", err)
	}

	return id, nil
}

// GetByID trae un turno con paciente y profesional desnormalizados
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentJoins + ` WHERE a.id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// GetByRange trae los turnos cuyo inicio cae en [from, to)
func (r *AppointmentRepository) GetByRange(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentJoins + `
		WHERE a.appointment_datetime >= $1
		  AND a.appointment_datetime < $2
		ORDER BY a.appointment_datetime ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get appointments by range: %w", err)
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	return appts, nil
}

// Update aplica un patch parcial; solo toca los campos presentes
func (r *AppointmentRepository) Update(ctx context.Context, id string, patch *model.AppointmentPatch) error {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.AppointmentDatetime != nil {
		add("appointment_datetime", *patch.AppointmentDatetime)
	}
	if patch.Duration != nil {
		add("duration", *patch.Duration)
	}
	if patch.Patient != nil {
		add("patient_id", *patch.Patient)
	}
	if patch.Professional != nil {
		add("professional_id", *patch.Professional)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		return fmt.Errorf("empty patch")
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE appointments SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args),
	)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete borra el turno
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM appointments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
