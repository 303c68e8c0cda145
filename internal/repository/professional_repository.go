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

type ProfessionalRepository struct {
	pool *pgxpool.Pool
}

func NewProfessionalRepository(pool *pgxpool.Pool) *ProfessionalRepository {
	return &ProfessionalRepository{pool: pool}
}

// Create da de alta un profesional
func (r *ProfessionalRepository) Create(ctx context.Context, prof *model.Professional) error {
	if prof.ID == "" {
		prof.ID = uuid.NewString()
	}

	query := `
		INSERT INTO professionals (id, username, firstname, lastname, phone, email, color)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
	`

	_, err := r.pool.Exec(
		ctx, query,
		prof.ID,
		prof.Username,
		prof.Firstname,
		prof.Lastname,
		prof.Phone,
		prof.Email,
		prof.Color,
	)
	if err != nil {
		return fmt.Errorf("create professional: %w", err)
	}

	return nil
}

// GetByID trae un profesional por id
func (r *ProfessionalRepository) GetByID(ctx context.Context, id string) (*model.Professional, error) {
	query := `
		SELECT id, username, firstname, lastname, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(color, '')
		FROM professionals
		WHERE id = $1
	`

	var prof model.Professional
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&prof.ID,
		&prof.Username,
		&prof.Firstname,
		&prof.Lastname,
		&prof.Phone,
		&prof.Email,
		&prof.Color,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get professional by id: %w", err)
	}

	return &prof, nil
}

// Dropdown lista los profesionales como opciones {value, text, id}
func (r *ProfessionalRepository) Dropdown(ctx context.Context) ([]model.DropdownOption, error) {
	query := `
		SELECT id, firstname, lastname
		FROM professionals
		ORDER BY lastname ASC, firstname ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list professionals dropdown: %w", err)
	}
	defer rows.Close()

	var options []model.DropdownOption
	for rows.Next() {
		var id, firstname, lastname string
		if err := rows.Scan(&id, &firstname, &lastname); err != nil {
			return nil, fmt.Errorf("scan professional option: %w", err)
		}
		options = append(options, model.DropdownOption{
			Value: id,
			Text:  lastname + ", " + firstname,
			ID:    id,
		})
	}

	return options, nil
}
