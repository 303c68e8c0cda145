package agenda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agusmolina/turnero/internal/model"
)

type calendarCall struct {
	start time.Time
	end   time.Time
}

type updateCall struct {
	id    string
	patch model.AppointmentPatch
}

// fakeGateway graba cada llamada para poder asertar sobre el tráfico exacto.
// gate, si está seteado, bloquea Calendar hasta que el test lo libere;
// started avisa que una llamada a Calendar quedó registrada.
type fakeGateway struct {
	mu       sync.Mutex
	events   []model.CalendarEvent
	calendar []calendarCall
	updates  []updateCall
	creates  []model.AppointmentInput
	deletes  []string

	calendarErr error
	updateErr   error
	createErr   error
	deleteErr   error

	respond func(start, end time.Time) []model.CalendarEvent
	gate    func(start, end time.Time)
	started chan calendarCall
}

func (g *fakeGateway) Calendar(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	g.mu.Lock()
	g.calendar = append(g.calendar, calendarCall{start: start, end: end})
	gate := g.gate
	respond := g.respond
	err := g.calendarErr
	events := append([]model.CalendarEvent(nil), g.events...)
	g.mu.Unlock()

	if g.started != nil {
		g.started <- calendarCall{start: start, end: end}
	}
	if gate != nil {
		gate(start, end)
	}
	if err != nil {
		return nil, err
	}
	if respond != nil {
		return respond(start, end), nil
	}
	return events, nil
}

func (g *fakeGateway) Create(ctx context.Context, in *model.AppointmentInput) (*model.Appointment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.creates = append(g.creates, *in)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &model.Appointment{ID: "new-id"}, nil
}

func (g *fakeGateway) Update(ctx context.Context, id string, patch *model.AppointmentPatch) (*model.Appointment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.updates = append(g.updates, updateCall{id: id, patch: *patch})
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	return &model.Appointment{ID: id}, nil
}

func (g *fakeGateway) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deletes = append(g.deletes, id)
	return g.deleteErr
}

func (g *fakeGateway) calendarCalls() []calendarCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]calendarCall(nil), g.calendar...)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

// El miércoles 13 de marzo de 2024; su semana es el 11 al 17
var testNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func testEvent(id string, start time.Time, duration int) model.CalendarEvent {
	return model.CalendarEvent{
		ID:    id,
		Title: "Gómez, Juan",
		Start: start,
		End:   start.Add(time.Duration(duration) * time.Minute),
		Resource: model.Appointment{
			ID:                  id,
			Patient:             model.PatientRef{ID: "p1", Firstname: "Juan", Lastname: "Gómez"},
			Professional:        model.ProfessionalRef{ID: "pr1", Firstname: "Marta", Lastname: "Suárez"},
			AppointmentDatetime: start,
			Duration:            duration,
			Status:              model.StatusProgramado,
			Notes:               "control",
		},
	}
}

func newTestController(t *testing.T, gw *fakeGateway) (*Controller, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	c := NewController(gw, notifier, zap.NewNop(), WithClock(func() time.Time { return testNow }))
	require.NoError(t, c.Load(context.Background()))
	return c, notifier
}

func TestLoadFetchesCurrentWeek(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}

	c, _ := newTestController(t, gw)

	calls := gw.calendarCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, date(2024, 3, 11), calls[0].start)
	assert.Equal(t, date(2024, 3, 17), calls[0].end)

	assert.Equal(t, ViewWeek, c.CurrentView())
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Len(t, c.Events(), 1)
}

func TestDropEventAddsPreviewWithoutNetwork(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)

	newStart := time.Date(2024, 3, 13, 11, 0, 0, 0, time.UTC)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(30*time.Minute)))

	assert.Equal(t, ModePreviewingDrop, c.Mode())

	events := c.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, start, events[0].Start) // el original no se movió
	assert.True(t, events[1].IsPreview())
	assert.Equal(t, "e1", model.OriginalID(events[1].ID))
	assert.Equal(t, newStart, events[1].Start)

	// Hasta confirmar no viaja nada al servidor
	assert.Empty(t, gw.updates)
	assert.Empty(t, gw.creates)
	assert.Len(t, gw.calendarCalls(), 1)
}

func TestDropEventRejectsPreview(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)

	newStart := start.Add(2 * time.Hour)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(30*time.Minute)))

	previewID := c.Events()[1].ID
	err := c.DropEvent(previewID, newStart.Add(time.Hour), newStart.Add(90*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmMove(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, notifier := newTestController(t, gw)

	newStart := time.Date(2024, 3, 13, 11, 0, 0, 0, time.UTC)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(30*time.Minute)))
	require.NoError(t, c.ConfirmMove(context.Background()))

	// Exactamente un PATCH, al id original sin sufijo, con la duración en
	// minutos enteros derivada del drop
	require.Len(t, gw.updates, 1)
	call := gw.updates[0]
	assert.Equal(t, "e1", call.id)
	require.NotNil(t, call.patch.AppointmentDatetime)
	assert.Equal(t, newStart, *call.patch.AppointmentDatetime)
	require.NotNil(t, call.patch.Duration)
	assert.Equal(t, 30, *call.patch.Duration)
	assert.Nil(t, call.patch.Status)

	assert.Empty(t, gw.creates)
	assert.Equal(t, []string{"Evento movido con éxito"}, notifier.successes)
	assert.Equal(t, ModeIdle, c.Mode())

	// Tras confirmar se refresca el rango y no quedan previsualizaciones
	assert.Len(t, gw.calendarCalls(), 2)
	for _, ev := range c.Events() {
		assert.False(t, ev.IsPreview())
	}
}

func TestConfirmMoveFailureKeepsPrompt(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		events:    []model.CalendarEvent{testEvent("e1", start, 30)},
		updateErr: errors.New("boom"),
	}
	c, notifier := newTestController(t, gw)

	newStart := start.Add(2 * time.Hour)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(30*time.Minute)))

	err := c.ConfirmMove(context.Background())
	require.Error(t, err)

	// El prompt queda abierto para reintentar y no hubo refetch
	assert.Equal(t, ModePreviewingDrop, c.Mode())
	assert.Equal(t, []string{"Error al mover el turno"}, notifier.errors)
	assert.Len(t, gw.calendarCalls(), 1)
}

func TestConfirmDuplicate(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, notifier := newTestController(t, gw)

	newStart := time.Date(2024, 3, 14, 16, 0, 0, 0, time.UTC)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(45*time.Minute)))
	require.NoError(t, c.ConfirmDuplicate(context.Background()))

	// Exactamente un POST sin id, con referencias como ids pelados y el
	// slot destino como datetime/duración
	require.Len(t, gw.creates, 1)
	in := gw.creates[0]
	assert.Equal(t, "p1", in.Patient)
	assert.Equal(t, "pr1", in.Professional)
	assert.Equal(t, newStart, in.AppointmentDatetime)
	assert.Equal(t, 45, in.Duration)
	assert.Equal(t, model.StatusProgramado, in.Status)
	assert.Equal(t, "control", in.Notes)

	assert.Empty(t, gw.updates)
	assert.Equal(t, []string{"Evento duplicado con éxito"}, notifier.successes)
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Len(t, gw.calendarCalls(), 2)
}

func TestCancelDrop(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)

	newStart := start.Add(2 * time.Hour)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(30*time.Minute)))
	require.NoError(t, c.CancelDrop())

	// Cancelar es puramente local: cero tráfico, el original sigue donde estaba
	assert.Equal(t, ModeIdle, c.Mode())
	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, start, events[0].Start)

	assert.Empty(t, gw.updates)
	assert.Empty(t, gw.creates)
	assert.Empty(t, gw.deletes)
	assert.Len(t, gw.calendarCalls(), 1)
}

func TestShiftWeek(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		dir  Direction
		want time.Time
	}{
		{"siguiente", Next, time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC)},
		{"anterior", Prev, time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
			c, notifier := newTestController(t, gw)

			require.NoError(t, c.ShiftWeek(context.Background(), "e1", tc.dir))

			// Un único PATCH que toca solo el datetime; la duración viaja nil
			require.Len(t, gw.updates, 1)
			call := gw.updates[0]
			assert.Equal(t, "e1", call.id)
			require.NotNil(t, call.patch.AppointmentDatetime)
			assert.Equal(t, tc.want, *call.patch.AppointmentDatetime)
			assert.Nil(t, call.patch.Duration)

			// Sin prompt: confirma directo y refresca
			assert.Equal(t, []string{"Evento movido con éxito"}, notifier.successes)
			assert.Len(t, gw.calendarCalls(), 2)
		})
	}
}

func TestShiftWeekRejectsToday(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)

	assert.Error(t, c.ShiftWeek(context.Background(), "e1", Today))
	assert.Empty(t, gw.updates)
}

func TestDeleteFlow(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, notifier := newTestController(t, gw)

	require.NoError(t, c.RequestDelete("e1"))
	assert.Equal(t, ModeConfirmingDelete, c.Mode())
	assert.Empty(t, gw.deletes) // nada viaja hasta confirmar

	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Equal(t, []string{"e1"}, gw.deletes)
	assert.Equal(t, []string{"Turno eliminado con éxito"}, notifier.successes)
	assert.Equal(t, ModeIdle, c.Mode())
	assert.Len(t, gw.calendarCalls(), 2)
}

func TestConfirmDeleteFailureKeepsModal(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{
		events:    []model.CalendarEvent{testEvent("e1", start, 30)},
		deleteErr: errors.New("boom"),
	}
	c, notifier := newTestController(t, gw)

	require.NoError(t, c.RequestDelete("e1"))
	require.Error(t, c.ConfirmDelete(context.Background()))

	assert.Equal(t, ModeConfirmingDelete, c.Mode())
	assert.Equal(t, []string{"Error al eliminar el turno"}, notifier.errors)
	assert.Len(t, gw.calendarCalls(), 1)
}

func TestCancelDelete(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)

	require.NoError(t, c.RequestDelete("e1"))
	require.NoError(t, c.CancelDelete())

	assert.Equal(t, ModeIdle, c.Mode())
	assert.Empty(t, gw.deletes)
}

func TestInvalidTransitions(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)
	ctx := context.Background()

	// Confirmaciones sin nada que confirmar
	assert.ErrorIs(t, c.ConfirmMove(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, c.ConfirmDuplicate(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, c.CancelDrop(), ErrInvalidTransition)
	assert.ErrorIs(t, c.ConfirmDelete(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, c.CancelDelete(), ErrInvalidTransition)
	assert.ErrorIs(t, c.CloseEditor(), ErrInvalidTransition)

	// Con un drop pendiente no se navega, ni se borra, ni se edita
	newStart := start.Add(2 * time.Hour)
	require.NoError(t, c.DropEvent("e1", newStart, newStart.Add(30*time.Minute)))
	assert.ErrorIs(t, c.Navigate(ctx, Next), ErrInvalidTransition)
	assert.ErrorIs(t, c.SetView(ctx, ViewDay), ErrInvalidTransition)
	assert.ErrorIs(t, c.RequestDelete("e1"), ErrInvalidTransition)
	_, err := c.OpenEdit("e1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, c.ShiftWeek(ctx, "e1", Next), ErrInvalidTransition)

	// El estado no se corrompió: cancelar vuelve a idle
	require.NoError(t, c.CancelDrop())
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestStaleResponseDiscarded(t *testing.T) {
	start := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	gw := &fakeGateway{events: []model.CalendarEvent{testEvent("e1", start, 30)}}
	c, _ := newTestController(t, gw)
	ctx := context.Background()

	staleRange := date(2024, 3, 4)  // semana anterior
	freshRange := date(2024, 3, 18) // semana siguiente

	gateStale := make(chan struct{})
	gateFresh := make(chan struct{})
	started := make(chan calendarCall, 4)

	gw.mu.Lock()
	gw.started = started
	gw.gate = func(s, _ time.Time) {
		switch {
		case s.Equal(staleRange):
			<-gateStale
		case s.Equal(freshRange):
			<-gateFresh
		}
	}
	gw.respond = func(s, _ time.Time) []model.CalendarEvent {
		if s.Equal(freshRange) {
			return []model.CalendarEvent{testEvent("fresh", freshRange.Add(10*time.Hour), 30)}
		}
		return []model.CalendarEvent{testEvent("stale", staleRange.Add(10*time.Hour), 30)}
	}
	gw.mu.Unlock()

	errs := make(chan error, 2)
	go func() {
		errs <- c.SetRange(ctx, staleRange, staleRange.AddDate(0, 0, 6))
	}()
	<-started // el fetch del rango viejo ya está en vuelo

	go func() {
		errs <- c.SetRange(ctx, freshRange, freshRange.AddDate(0, 0, 6))
	}()
	<-started

	// La respuesta nueva llega primero, la vieja después
	close(gateFresh)
	require.NoError(t, <-errs)
	close(gateStale)
	require.NoError(t, <-errs)

	// Gana el último rango pedido, no el último request en resolver
	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].ID)
	assert.Equal(t, DateRange{Start: freshRange, End: freshRange.AddDate(0, 0, 6)}, c.Range())
}

func TestSetViewRecalculatesRange(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.SetView(ctx, ViewDay))
	assert.Equal(t, DateRange{Start: date(2024, 3, 13), End: date(2024, 3, 13)}, c.Range())

	// Agenda no define rango propio: reusa el último
	require.NoError(t, c.SetView(ctx, ViewAgenda))
	assert.Equal(t, DateRange{Start: date(2024, 3, 13), End: date(2024, 3, 13)}, c.Range())

	assert.Error(t, c.SetView(ctx, View("timeline")))
}

func TestNavigateRefetches(t *testing.T) {
	gw := &fakeGateway{}
	c, _ := newTestController(t, gw)

	require.NoError(t, c.Navigate(context.Background(), Next))

	calls := gw.calendarCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, date(2024, 3, 18), calls[1].start)
	assert.Equal(t, date(2024, 3, 24), calls[1].end)
	assert.Equal(t, date(2024, 3, 20), c.CurrentDate())
}
