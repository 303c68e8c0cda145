package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
)

const dayLayout = "2006-01-02"

// APIError es un error que el backend reportó dentro del sobre
// {data, message, status}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client habla el contrato REST del backend de turnos. Todas las llamadas
// llevan la credencial bearer y un timeout explícito: un request colgado
// corta con error en vez de dejar la agenda cargando para siempre.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Calendar trae los eventos del rango [start, end] (días enteros).
// Cada evento decodificado se valida: no confiamos en el shape del payload.
func (c *Client) Calendar(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	endpoint := fmt.Sprintf("/appointments/calendar?start=%s&end=%s",
		start.Format(dayLayout), end.Format(dayLayout))

	var events []model.CalendarEvent
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &events); err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}

	for i := range events {
		if err := events[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid calendar event: %w", err)
		}
	}

	return events, nil
}

// Get trae un turno por id
func (c *Client) Get(ctx context.Context, id string) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, &appt); err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &appt, nil
}

// Create da de alta un turno; el payload lleva ids pelados, nunca objetos
func (c *Client) Create(ctx context.Context, in *model.AppointmentInput) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", in, &appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &appt, nil
}

// Update aplica un patch parcial sobre el turno
func (c *Client) Update(ctx context.Context, id string, patch *model.AppointmentPatch) (*model.Appointment, error) {
	var appt model.Appointment
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id), patch, &appt); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return &appt, nil
}

// Delete borra el turno
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// PatientsDropdown lista pacientes para el select del modal
func (c *Client) PatientsDropdown(ctx context.Context) ([]model.DropdownOption, error) {
	var options []model.DropdownOption
	if err := c.do(ctx, http.MethodGet, "/patients/dropdown", nil, &options); err != nil {
		return nil, fmt.Errorf("patients dropdown: %w", err)
	}
	return options, nil
}

// ProfessionalsDropdown lista profesionales para el select del modal
func (c *Client) ProfessionalsDropdown(ctx context.Context) ([]model.DropdownOption, error) {
	var options []model.DropdownOption
	if err := c.do(ctx, http.MethodGet, "/professionals/dropdown", nil, &options); err != nil {
		return nil, fmt.Errorf("professionals dropdown: %w", err)
	}
	return options, nil
}

// CreatePatient alta rápida de paciente desde el modal de turnos
func (c *Client) CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	var patient model.Patient
	if err := c.do(ctx, http.MethodPost, "/patients", in, &patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return &patient, nil
}

// envelope es el sobre {data, message, status} que devuelve el backend
type responseEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
}

// do ejecuta el request, desarma el sobre y decodifica data en out
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	// El status viaja en el body, igual que en el useFetch original
	if env.Status != http.StatusOK && env.Status != http.StatusCreated {
		c.logger.Warn("api call rejected",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", env.Status),
			zap.String("message", env.Message))
		return &APIError{Status: env.Status, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}

	return nil
}
