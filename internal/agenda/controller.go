package agenda

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
)

// Mode es el estado de interacción del calendario. Los estados ilegales
// (dos modales abiertos, arrastrar una previsualización) se rechazan acá.
type Mode string

const (
	ModeIdle             Mode = "idle"
	ModePreviewingDrop   Mode = "previewing_drop"
	ModeConfirmingDelete Mode = "confirming_delete"
	ModeEditing          Mode = "editing"
)

// ErrInvalidTransition se devuelve cuando una interacción no es válida en el
// estado actual (ej: confirmar un drop que no existe).
var ErrInvalidTransition = errors.New("invalid interaction state transition")

// Mensajes de los toasts, tal cual los muestra el front-end
const (
	msgMoved          = "Evento movido con éxito"
	msgMoveError      = "Error al mover el turno"
	msgDuplicated     = "Evento duplicado con éxito"
	msgDuplicateError = "Error al duplicar el turno"
	msgDeleted        = "Turno eliminado con éxito"
	msgDeleteError    = "Error al eliminar el turno"
	msgCreated        = "Turno creado con éxito"
	msgUpdated        = "Turno actualizado con éxito"
	msgSaveError      = "Error al guardar el turno"
	msgFetchError     = "Error al buscar los turnos"
)

// Gateway es lo que el controlador necesita del backend de turnos
type Gateway interface {
	Calendar(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error)
	Create(ctx context.Context, in *model.AppointmentInput) (*model.Appointment, error)
	Update(ctx context.Context, id string, patch *model.AppointmentPatch) (*model.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// pendingDrop guarda el drop reportado por el widget hasta que el usuario
// confirme Mover o Duplicar. El evento original no se toca.
type pendingDrop struct {
	original  model.CalendarEvent
	start     time.Time
	end       time.Time
	previewID string
}

// Controller es el dueño del rango visible, la vista activa, la lista de
// eventos en memoria y las interacciones contra el backend. La lista de
// eventos se reemplaza entera con cada fetch, nunca se mergea: lo cargado
// corresponde siempre al último rango pedido.
type Controller struct {
	mu       sync.Mutex
	gw       Gateway
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	view   View
	date   time.Time
	rng    DateRange
	events []model.CalendarEvent

	// Token de generación: cada transición de rango lo incrementa y una
	// respuesta solo se aplica si su token sigue siendo el último.
	generation uint64

	mode     Mode
	drop     *pendingDrop
	deleteID string
	editor   *editorSession
}

// Option configura el controlador
type Option func(*Controller)

// WithClock inyecta el reloj (para tests)
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithView arranca en otra vista que la semanal
func WithView(view View) Option {
	return func(c *Controller) {
		c.view = view
	}
}

// NewController arma el controlador en la semana actual, vista semanal
func NewController(gw Gateway, notifier Notifier, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		view:     ViewWeek,
		mode:     ModeIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.date = startOfDay(c.now())
	c.rng = RangeFor(c.date, c.view, DateRange{})
	return c
}

// Load hace el fetch inicial del rango actual
func (c *Controller) Load(ctx context.Context) error {
	return c.refetch(ctx)
}

// SetView cambia la granularidad y recalcula el rango desde la fecha ancla
func (c *Controller) SetView(ctx context.Context, view View) error {
	if !view.IsValid() {
		return fmt.Errorf("unknown view %q", view)
	}

	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.view = view
	c.rng = RangeFor(c.date, view, c.rng)
	c.mu.Unlock()

	return c.refetch(ctx)
}

// Navigate corre la fecha ancla una unidad de la vista activa o vuelve a hoy
func (c *Controller) Navigate(ctx context.Context, dir Direction) error {
	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.date = Navigate(c.date, c.view, dir, c.now())
	c.rng = RangeFor(c.date, c.view, c.rng)
	c.mu.Unlock()

	return c.refetch(ctx)
}

// SetRange toma un rango reportado por el widget tal cual, normalizado a días
func (c *Controller) SetRange(ctx context.Context, start, end time.Time) error {
	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.rng = NormalizeRange(start, end)
	c.mu.Unlock()

	return c.refetch(ctx)
}

// DropEvent registra el drop del widget: agrega la previsualización
// sintética junto al original y abre el prompt Mover/Duplicar.
// El turno persistido no se toca hasta que el usuario confirme.
func (c *Controller) DropEvent(eventID string, newStart, newEnd time.Time) error {
	if !newEnd.After(newStart) {
		return fmt.Errorf("drop end %s is not after start %s", newEnd, newStart)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return ErrInvalidTransition
	}

	ev, ok := c.findEvent(eventID)
	if !ok {
		return fmt.Errorf("unknown event %s", eventID)
	}
	// Las previsualizaciones pendientes no se arrastran
	if ev.IsPreview() {
		return ErrInvalidTransition
	}

	preview := model.NewPreviewEvent(ev, newStart, newEnd)
	c.events = append(c.events, preview)
	c.drop = &pendingDrop{
		original:  ev,
		start:     newStart,
		end:       newEnd,
		previewID: preview.ID,
	}
	c.mode = ModePreviewingDrop

	return nil
}

// ConfirmMove confirma el drop como movimiento: un único PATCH al turno
// original con el nuevo datetime y la duración derivada del drop.
// Si falla, el prompt queda abierto para reintentar.
func (c *Controller) ConfirmMove(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModePreviewingDrop || c.drop == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	drop := c.drop
	c.mu.Unlock()

	duration := int(drop.end.Sub(drop.start).Minutes())
	patch := &model.AppointmentPatch{
		AppointmentDatetime: &drop.start,
		Duration:            &duration,
	}

	if _, err := c.gw.Update(ctx, model.OriginalID(drop.original.ID), patch); err != nil {
		c.notifier.Error(msgMoveError)
		return fmt.Errorf("move appointment: %w", err)
	}

	c.clearDrop()
	c.notifier.Success(msgMoved)
	return c.refetch(ctx)
}

// ConfirmDuplicate confirma el drop como duplicado: un único POST con todos
// los campos del original menos el id, referencias como ids pelados y
// datetime/duración del slot destino.
func (c *Controller) ConfirmDuplicate(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModePreviewingDrop || c.drop == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	drop := c.drop
	c.mu.Unlock()

	res := drop.original.Resource
	in := &model.AppointmentInput{
		Patient:             res.Patient.ID,
		Professional:        res.Professional.ID,
		AppointmentDatetime: drop.start,
		Duration:            int(drop.end.Sub(drop.start).Minutes()),
		Status:              res.Status,
		Notes:               res.Notes,
		CreatedBy:           res.CreatedBy,
	}

	if _, err := c.gw.Create(ctx, in); err != nil {
		c.notifier.Error(msgDuplicateError)
		return fmt.Errorf("duplicate appointment: %w", err)
	}

	c.clearDrop()
	c.notifier.Success(msgDuplicated)
	return c.refetch(ctx)
}

// CancelDrop descarta la previsualización sin tocar el servidor. El evento
// original nunca se mutó, así que vuelve solo a su posición.
func (c *Controller) CancelDrop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModePreviewingDrop {
		return ErrInvalidTransition
	}

	c.discardPreviewsLocked()
	c.drop = nil
	c.mode = ModeIdle
	return nil
}

// ShiftWeek corre un turno exactamente ±7 días sobre su datetime existente.
// Es una mutación directa, sin prompt: acá no hay ambigüedad de intención.
// La duración no se toca.
func (c *Controller) ShiftWeek(ctx context.Context, eventID string, dir Direction) error {
	if dir != Prev && dir != Next {
		return fmt.Errorf("shift direction must be prev or next")
	}

	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	ev, ok := c.findEvent(eventID)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("unknown event %s", eventID)
	}
	if ev.IsPreview() {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.mu.Unlock()

	newDatetime := ev.Resource.AppointmentDatetime.AddDate(0, 0, 7*int(dir))
	patch := &model.AppointmentPatch{AppointmentDatetime: &newDatetime}

	if _, err := c.gw.Update(ctx, ev.ID, patch); err != nil {
		c.notifier.Error(msgMoveError)
		return fmt.Errorf("shift appointment week: %w", err)
	}

	c.notifier.Success(msgMoved)
	return c.refetch(ctx)
}

// RequestDelete abre la confirmación de borrado para un turno
func (c *Controller) RequestDelete(eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return ErrInvalidTransition
	}

	ev, ok := c.findEvent(eventID)
	if !ok {
		return fmt.Errorf("unknown event %s", eventID)
	}
	if ev.IsPreview() {
		return ErrInvalidTransition
	}

	c.deleteID = ev.ID
	c.mode = ModeConfirmingDelete
	return nil
}

// ConfirmDelete borra el turno seleccionado. Si el DELETE falla, el modal
// queda abierto para reintentar; no se traga el error.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModeConfirmingDelete || c.deleteID == "" {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	id := c.deleteID
	c.mu.Unlock()

	if err := c.gw.Delete(ctx, id); err != nil {
		c.notifier.Error(msgDeleteError)
		return fmt.Errorf("delete appointment: %w", err)
	}

	c.mu.Lock()
	c.deleteID = ""
	c.mode = ModeIdle
	c.mu.Unlock()

	c.notifier.Success(msgDeleted)
	return c.refetch(ctx)
}

// CancelDelete cierra la confirmación sin tocar el servidor
func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeConfirmingDelete {
		return ErrInvalidTransition
	}

	c.deleteID = ""
	c.mode = ModeIdle
	return nil
}

// Events devuelve una copia de los eventos cargados
func (c *Controller) Events() []model.CalendarEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make([]model.CalendarEvent, len(c.events))
	copy(events, c.events)
	return events
}

// Range devuelve el rango cargado actual
func (c *Controller) Range() DateRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng
}

// CurrentView devuelve la vista activa
func (c *Controller) CurrentView() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// CurrentDate devuelve la fecha ancla
func (c *Controller) CurrentDate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

// Mode devuelve el estado de interacción actual
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// refetch pide los turnos del rango actual y reemplaza la lista entera.
// Una respuesta cuyo token quedó viejo se descarta: gana el último rango
// pedido, no el último request en resolver.
func (c *Controller) refetch(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	rng := c.rng
	c.mu.Unlock()

	events, err := c.gw.Calendar(ctx, rng.Start, rng.End)
	if err != nil {
		c.notifier.Error(msgFetchError)
		return fmt.Errorf("refetch range: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("stale calendar response discarded",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", c.generation))
		return nil
	}

	c.events = events
	return nil
}

// clearDrop saca las previsualizaciones y vuelve a Idle
func (c *Controller) clearDrop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardPreviewsLocked()
	c.drop = nil
	c.mode = ModeIdle
}

// discardPreviewsLocked filtra los eventos sintéticos; requiere c.mu tomado
func (c *Controller) discardPreviewsLocked() {
	kept := c.events[:0]
	for _, ev := range c.events {
		if !ev.IsPreview() {
			kept = append(kept, ev)
		}
	}
	c.events = kept
}

// findEvent busca un evento cargado por id; requiere c.mu tomado
func (c *Controller) findEvent(id string) (model.CalendarEvent, bool) {
	for _, ev := range c.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return model.CalendarEvent{}, false
}
