package model

import "time"

type Patient struct {
	ID           string    `json:"id"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email,omitempty"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Phone        string    `json:"phone,omitempty"`
	RegisterDate time.Time `json:"registerDate"`
}

// DisplayName arma el nombre como se muestra en la agenda
func (p *Patient) DisplayName() string {
	if p.Lastname == "" {
		return p.Firstname
	}
	return p.Lastname + ", " + p.Firstname
}

// PatientInput es el alta rápida de paciente desde el modal de turnos
type PatientInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}
