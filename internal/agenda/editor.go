package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/agusmolina/turnero/internal/model"
)

// defaultDuration es la duración con la que se siembra el modal de alta
const defaultDuration = 60

// EditorForm es el value object que el modal de crear/editar levanta y
// devuelve al confirmar. Las referencias van como ids pelados para el
// binding del formulario.
type EditorForm struct {
	AppointmentDatetime time.Time
	Duration            int
	Status              model.AppointmentStatus
	Patient             string
	Professional        string
	Notes               string
	CreatedBy           string
}

// editorSession recuerda si el modal se abrió con un id (editar) o sin
// (crear); el ruteo POST vs PATCH al confirmar depende de eso.
type editorSession struct {
	id   string
	form EditorForm
}

// OpenCreate abre el modal de alta con los valores por defecto:
// ahora, 60 minutos, paciente y profesional vacíos.
func (c *Controller) OpenCreate() (EditorForm, error) {
	form := EditorForm{
		AppointmentDatetime: c.now(),
		Duration:            defaultDuration,
		Status:              model.StatusProgramado,
	}
	return c.openEditor("", form)
}

// OpenCreateSlot abre el modal de alta sembrado desde un slot vacío
// clickeado: start del slot y duración end-start.
func (c *Controller) OpenCreateSlot(start, end time.Time) (EditorForm, error) {
	if !end.After(start) {
		return EditorForm{}, fmt.Errorf("slot end %s is not after start %s", end, start)
	}

	form := EditorForm{
		AppointmentDatetime: start,
		Duration:            int(end.Sub(start).Minutes()),
		Status:              model.StatusProgramado,
	}
	return c.openEditor("", form)
}

// OpenEdit abre el modal de edición sembrado desde el resource del evento,
// aplanando paciente y profesional a sus ids.
func (c *Controller) OpenEdit(eventID string) (EditorForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return EditorForm{}, ErrInvalidTransition
	}

	ev, ok := c.findEvent(eventID)
	if !ok {
		return EditorForm{}, fmt.Errorf("unknown event %s", eventID)
	}
	if ev.IsPreview() {
		return EditorForm{}, ErrInvalidTransition
	}

	res := ev.Resource
	form := EditorForm{
		AppointmentDatetime: res.AppointmentDatetime,
		Duration:            res.Duration,
		Status:              res.Status,
		Patient:             res.Patient.ID,
		Professional:        res.Professional.ID,
		Notes:               res.Notes,
		CreatedBy:           res.CreatedBy,
	}

	c.editor = &editorSession{id: ev.ID, form: form}
	c.mode = ModeEditing
	return form, nil
}

// openEditor entra al modo edición con una sesión de alta
func (c *Controller) openEditor(id string, form EditorForm) (EditorForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeIdle {
		return EditorForm{}, ErrInvalidTransition
	}

	c.editor = &editorSession{id: id, form: form}
	c.mode = ModeEditing
	return form, nil
}

// SubmitEditor confirma el modal. El ruteo es por cómo se abrió: sin id es
// un POST de alta, con id un PATCH de edición. Si la llamada falla el modal
// queda abierto para reintentar.
func (c *Controller) SubmitEditor(ctx context.Context, form EditorForm) error {
	c.mu.Lock()
	if c.mode != ModeEditing || c.editor == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	id := c.editor.id
	c.mu.Unlock()

	if id == "" {
		in := &model.AppointmentInput{
			Patient:             form.Patient,
			Professional:        form.Professional,
			AppointmentDatetime: form.AppointmentDatetime,
			Duration:            form.Duration,
			Status:              form.Status,
			Notes:               form.Notes,
			CreatedBy:           form.CreatedBy,
		}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("validate editor form: %w", err)
		}
		if _, err := c.gw.Create(ctx, in); err != nil {
			c.notifier.Error(msgSaveError)
			return fmt.Errorf("create appointment: %w", err)
		}
		c.notifier.Success(msgCreated)
	} else {
		patch := &model.AppointmentPatch{
			AppointmentDatetime: &form.AppointmentDatetime,
			Duration:            &form.Duration,
			Patient:             &form.Patient,
			Professional:        &form.Professional,
			Status:              &form.Status,
			Notes:               &form.Notes,
		}
		if err := patch.Validate(); err != nil {
			return fmt.Errorf("validate editor form: %w", err)
		}
		if _, err := c.gw.Update(ctx, id, patch); err != nil {
			c.notifier.Error(msgSaveError)
			return fmt.Errorf("update appointment: %w", err)
		}
		c.notifier.Success(msgUpdated)
	}

	// Cerró bien: se limpia la selección y se refresca el rango
	c.mu.Lock()
	c.editor = nil
	c.mode = ModeIdle
	c.mu.Unlock()

	return c.refetch(ctx)
}

// CloseEditor cierra el modal sin guardar. La selección se limpia sea cual
// sea el resultado; el servidor no se toca.
func (c *Controller) CloseEditor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeEditing {
		return ErrInvalidTransition
	}

	c.editor = nil
	c.mode = ModeIdle
	return nil
}
