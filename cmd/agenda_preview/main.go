package main

import (
	"fmt"
	"os"
	"time"

	"github.com/agusmolina/turnero/internal/model"
	"github.com/agusmolina/turnero/internal/render"
)

// Genera una imagen de agenda semanal con datos de prueba, para revisar el
// renderer a ojo sin levantar la API.
func main() {
	now := time.Now()
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	gomez := model.PatientRef{ID: "p1", Firstname: "Juan", Lastname: "Gómez"}
	diaz := model.PatientRef{ID: "p2", Firstname: "Lucía", Lastname: "Díaz"}
	prof := model.ProfessionalRef{ID: "pr1", Firstname: "Marta", Lastname: "Suárez", Color: "#4f9d69"}

	events := []model.CalendarEvent{
		event("a1", gomez, prof, monday.Add(9*time.Hour), 60, model.StatusProgramado),
		event("a2", diaz, prof, monday.Add(14*time.Hour+30*time.Minute), 45, model.StatusRealizado),
		event("a3", gomez, prof, monday.AddDate(0, 0, 1).Add(10*time.Hour), 30, model.StatusCancelado),
		event("a4", diaz, prof, monday.AddDate(0, 0, 3).Add(16*time.Hour), 90, model.StatusProgramado),
		event("a5", gomez, prof, monday.AddDate(0, 0, 4).Add(11*time.Hour), 60, model.StatusProgramado),
	}

	png, err := render.WeekImage(monday, events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	out := "agenda_week.png"
	if err := os.WriteFile(out, png, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Imagen generada: %s (%d bytes)\n", out, len(png))
}

func event(id string, patient model.PatientRef, prof model.ProfessionalRef, start time.Time, minutes int, status model.AppointmentStatus) model.CalendarEvent {
	appt := model.Appointment{
		ID:                  id,
		Patient:             patient,
		Professional:        prof,
		AppointmentDatetime: start,
		Duration:            minutes,
		Status:              status,
	}
	return model.CalendarEvent{
		ID:       id,
		Title:    patient.Lastname + ", " + patient.Firstname,
		Start:    start,
		End:      appt.End(),
		Resource: appt,
	}
}
