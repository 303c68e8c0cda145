package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/service"
)

// Handler agrupa los handlers HTTP del servicio de turnos
type Handler struct {
	appts  *service.AppointmentService
	dir    *service.DirectoryService
	logger *zap.Logger
}

func NewHandler(
	appts *service.AppointmentService,
	dir *service.DirectoryService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		appts:  appts,
		dir:    dir,
		logger: logger,
	}
}

// NewRouter arma el router con middlewares y todas las rutas del servicio
func NewRouter(h *Handler, apiToken string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(bearerAuth(apiToken))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/calendar", h.GetCalendar)
		r.Get("/calendar/image", h.GetCalendarImage)
		r.Post("/", h.CreateAppointment)
		r.Get("/{id}", h.GetAppointment)
		r.Patch("/{id}", h.UpdateAppointment)
		r.Delete("/{id}", h.DeleteAppointment)
	})

	r.Get("/patients/dropdown", h.PatientsDropdown)
	r.Post("/patients", h.CreatePatient)
	r.Get("/professionals/dropdown", h.ProfessionalsDropdown)

	return r
}
