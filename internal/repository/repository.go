package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound lo devuelven los repos cuando la fila no existe.
// Los handlers lo mapean a 404.
var ErrNotFound = errors.New("not found")

// IsNotFound chequea si el error es "fila no encontrada"
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
