package crud

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
)

var (
	ErrBusy             = errors.New("hay una operación en curso")
	ErrNoForm           = errors.New("no hay un formulario abierto")
	ErrNotFound         = errors.New("registro no encontrado")
	ErrClosed           = errors.New("pantalla cerrada")
	ErrUnknownAction    = errors.New("acción desconocida")
	ErrActionNotAllowed = errors.New("acción no permitida para este registro")
	ErrInvalidArgument  = errors.New("valor no permitido")
)

// inline error of a reference to an inactive or unavailable record
const msgUnavailable = "no disponible"

// Alerts is the part of the alert service screens use.
type Alerts interface {
	Notify(title, body string, sev alert.Severity, opts ...alert.Option) uint64
	Confirm(ctx context.Context, title, body string, opts ...alert.ConfirmOption) (bool, error)
}

// Deps are the services shared by every screen.
type Deps struct {
	Alerts    Alerts
	Validator *core.Validator
	Logger    core.Logger
	Bus       *events.Bus
}

type FormMode string

// Form modes
const (
	Create FormMode = "create"
	Edit   FormMode = "edit"
)

// FormState is the open create/edit form.
type FormState struct {
	Mode   FormMode
	ID     int // record being edited
	Values map[string]string
	Errors map[string]string // inline, per field
	seq    uint64
}

func (f FormState) clone() FormState {
	f.Values = cloneMap(f.Values)
	f.Errors = cloneMap(f.Errors)
	return f
}

// Screen holds the view state of one entity screen. It is bound to a lifetime started by
// Open and ended by Close; results arriving after Close are dropped.
type Screen[T any] struct {
	schema Schema[T]
	deps   Deps

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	gen     uint64
	loading bool
	loadErr error
	records []T
	options map[string][]Option
	filters Filters
	form    *FormState
	formSeq uint64
	busy    bool
}

func NewScreen[T any](schema Schema[T], deps Deps) *Screen[T] {
	if deps.Logger == nil {
		deps.Logger = core.NopLogger()
	}
	if deps.Validator == nil {
		deps.Validator = core.NewValidator()
	}
	return &Screen[T]{
		schema:  schema,
		deps:    deps,
		options: make(map[string][]Option),
		filters: make(Filters),
	}
}

func (s *Screen[T]) Schema() Schema[T] { return s.schema }

// Open starts the screen's lifetime and loads its data.
func (s *Screen[T]) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.closed = false
	s.mu.Unlock()
	return s.Reload()
}

// Close ends the screen's lifetime, cancelling in-flight requests.
func (s *Screen[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Reload fetches the collection and every lookup in parallel. State is only replaced once
// all of them resolved: on any failure, records and options are emptied and the error is shown.
func (s *Screen[T]) Reload() error {
	s.mu.Lock()
	if s.ctx == nil || s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.gen++
	gen, ctx := s.gen, s.ctx
	s.loading = true
	s.mu.Unlock()
	s.publish("loading")

	recs, opts, err := s.load(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if gen != s.gen {
		// a newer load owns the state
		s.mu.Unlock()
		return nil
	}
	s.loading = false
	s.loadErr = err
	if err != nil {
		s.records = nil
		s.options = make(map[string][]Option)
	} else {
		s.records = recs
		s.options = opts
	}
	s.mu.Unlock()

	if err != nil {
		s.deps.Logger.Warn("crud: loading "+s.schema.Entity+" failed", err)
		s.deps.Alerts.Notify("Error al cargar "+s.schema.Title, Message(err), alert.Error)
	}
	s.publish("loaded")
	return err
}

func (s *Screen[T]) load(ctx context.Context) ([]T, map[string][]Option, error) {
	g, gctx := errgroup.WithContext(ctx)

	var recs []T
	g.Go(func() error {
		var err error
		recs, err = s.schema.Collection.List(gctx)
		return err
	})

	loaded := make([][]Option, len(s.schema.Lookups))
	for i, lk := range s.schema.Lookups {
		i, lk := i, lk
		g.Go(func() error {
			opts, err := lk.Load(gctx)
			loaded[i] = opts
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	opts := make(map[string][]Option, len(loaded))
	for i, lk := range s.schema.Lookups {
		opts[lk.Name] = loaded[i]
	}
	return recs, opts, nil
}

func (s *Screen[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err is the error of the last load, if it failed.
func (s *Screen[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *Screen[T]) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Records returns every fetched record.
func (s *Screen[T]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.records...)
}

// Find returns the fetched record id.
func (s *Screen[T]) Find(id int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

// caller holds s.mu
func (s *Screen[T]) find(id int) (T, bool) {
	for _, rec := range s.records {
		if s.schema.ID(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// SetFilters replaces the filters. Empty values are dropped.
func (s *Screen[T]) SetFilters(f Filters) {
	s.mu.Lock()
	s.filters = f.clone()
	s.mu.Unlock()
	s.publish("filters")
}

func (s *Screen[T]) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.clone()
}

// Visible returns the fetched records matching the filters.
func (s *Screen[T]) Visible() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter(s.records, s.filters, s.schema.Match)
}

// Choices returns the eligible options of lookup, plus the ones in keep (referenced by the
// record being edited) so that history is never hidden.
func (s *Screen[T]) Choices(lookup string, keep ...int) []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Option, 0, len(s.options[lookup]))
	for _, opt := range s.options[lookup] {
		if opt.Eligible || containsID(keep, opt.ID) {
			out = append(out, opt)
		}
	}
	return out
}

// Label resolves id against the whole lookup collection, eligible or not.
func (s *Screen[T]) Label(lookup string, id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, opt := range s.options[lookup] {
		if opt.ID == id {
			return opt.Label
		}
	}
	if id == 0 {
		return ""
	}
	return "#" + strconv.Itoa(id)
}

// Form returns a copy of the open form.
func (s *Screen[T]) Form() (FormState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return FormState{}, false
	}
	return s.form.clone(), true
}

// OpenCreate opens an empty create form.
func (s *Screen[T]) OpenCreate() {
	values := make(map[string]string)
	for _, f := range s.schema.Fields {
		if f.Default != "" {
			values[f.Name] = f.Default
		}
	}
	s.mu.Lock()
	s.formSeq++
	s.form = &FormState{Mode: Create, Values: values, seq: s.formSeq}
	s.mu.Unlock()
	s.publish("form")
}

// OpenEdit opens the edit form of record id, prefilled with its values.
func (s *Screen[T]) OpenEdit(id int) error {
	s.mu.Lock()
	rec, ok := s.find(id)
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.formSeq++
	s.form = &FormState{Mode: Edit, ID: id, Values: s.schema.Values(rec), seq: s.formSeq}
	s.mu.Unlock()
	s.publish("form")
	return nil
}

func (s *Screen[T]) CancelForm() {
	s.mu.Lock()
	s.form = nil
	s.mu.Unlock()
	s.publish("form")
}

// Submit validates values and sends them (POST on create, PUT on edit). Validation failures
// are reported inline without any request. On success the form is closed and everything is
// reloaded; on failure the server's message is shown and the form stays open.
func (s *Screen[T]) Submit(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.form == nil {
		s.mu.Unlock()
		return ErrNoForm
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.form.Values = cloneMap(values)
	s.form.Errors = nil
	form := s.form.clone()
	s.mu.Unlock()
	defer s.setBusy(false)
	s.publish("busy")

	payload, err := s.schema.NewForm(values)
	if err == nil {
		err = s.deps.Validator.Struct(payload)
	}
	if err == nil {
		err = s.checkRefs(form, values)
	}
	if err != nil {
		if fields, ok := core.FieldErrors(err); ok {
			s.setFormErrors(form.seq, fields)
		}
		return err
	}

	ctx, stop := s.opContext(ctx)
	defer stop()
	if form.Mode == Create {
		err = s.schema.Collection.Create(ctx, payload)
	} else {
		err = s.schema.Collection.Update(ctx, form.ID, payload)
	}
	if err != nil {
		if s.isClosed() {
			return err
		}
		if fields, ok := serverFieldErrors(err); ok {
			s.setFormErrors(form.seq, fields)
		}
		s.deps.Alerts.Notify("Error al guardar", Message(err), alert.Error)
		return err
	}

	s.mu.Lock()
	if s.form != nil && s.form.seq == form.seq {
		s.form = nil
	}
	s.mu.Unlock()

	msg := s.schema.Singular + " creado correctamente"
	if form.Mode == Edit {
		msg = s.schema.Singular + " actualizado correctamente"
	}
	s.deps.Alerts.Notify("Guardado", msg, alert.Success)
	_ = s.Reload()
	return nil
}

// checkRefs rejects references to counterparts that are not eligible. The values the edited
// record already holds stay selectable.
func (s *Screen[T]) checkRefs(form FormState, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var original map[string]string
	if form.Mode == Edit {
		if rec, ok := s.find(form.ID); ok {
			original = s.schema.Values(rec)
		}
	}

	var flds []core.FieldError
	for _, f := range s.schema.Fields {
		if f.Kind != Ref || values[f.Name] == "" {
			continue
		}
		opts, loaded := s.options[f.Lookup]
		if !loaded {
			continue
		}
		id, err := strconv.Atoi(values[f.Name])
		if err != nil {
			flds = append(flds, core.FieldError{Field: f.Name, Error: msgUnavailable})
			continue
		}
		var keep []int
		if prev, err := strconv.Atoi(original[f.Name]); err == nil {
			keep = append(keep, prev)
		}
		if !eligible(opts, id, keep) {
			flds = append(flds, core.FieldError{Field: f.Name, Error: msgUnavailable})
		}
	}
	if len(flds) == 0 {
		return nil
	}
	return core.NewValidationError(nil, flds...)
}

func eligible(opts []Option, id int, keep []int) bool {
	for _, opt := range opts {
		if opt.ID == id {
			return opt.Eligible || containsID(keep, id)
		}
	}
	return false
}

// Delete asks for confirmation, then deletes record id and reloads. It reports whether the
// record was deleted; a cancelled confirmation is not an error. Nothing is asked while
// another operation is in flight.
func (s *Screen[T]) Delete(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if s.busy {
		s.mu.Unlock()
		s.deps.Alerts.Notify("Operación en curso", ErrBusy.Error(), alert.Warning)
		return false, ErrBusy
	}
	rec, ok := s.find(id)
	s.mu.Unlock()
	if !ok {
		return false, ErrNotFound
	}

	ok, err := s.deps.Alerts.Confirm(ctx,
		"Eliminar "+s.schema.Singular,
		"¿Está seguro de eliminar "+s.describe(rec)+"? Esta acción no se puede deshacer.",
		alert.Dangerous(), alert.WithLabels("Eliminar", ""),
	)
	if err != nil || !ok {
		return false, err
	}

	if err := s.mutate(ctx, "Error al eliminar", func(ctx context.Context) error {
		return s.schema.Collection.Delete(ctx, id)
	}); err != nil {
		return false, err
	}
	s.deps.Alerts.Notify("Eliminado", s.schema.Singular+" eliminado correctamente", alert.Success)
	_ = s.Reload()
	return true, nil
}

// Patch applies the state-only transition `action` to record id, then reloads.
func (s *Screen[T]) Patch(ctx context.Context, id int, action, arg string) error {
	a, ok := s.schema.Action(action)
	if !ok {
		return errors.Wrap(ErrUnknownAction, action)
	}
	s.mu.Lock()
	rec, ok := s.find(id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if a.Allowed != nil && !a.Allowed(rec) {
		return ErrActionNotAllowed
	}
	if len(a.Args) > 0 && !containsString(a.Args, arg) {
		return errors.Wrap(ErrInvalidArgument, arg)
	}

	var body interface{}
	if a.Body != nil {
		body = a.Body(rec, arg)
	}
	if err := s.mutate(ctx, "Error al actualizar", func(ctx context.Context) error {
		return s.schema.Collection.Patch(ctx, id, a.Name, body)
	}); err != nil {
		return err
	}
	s.deps.Alerts.Notify("Actualizado", a.Label+": "+s.describe(rec), alert.Success)
	_ = s.Reload()
	return nil
}

// mutate runs fn guarded by the busy flag; failures are shown with title.
func (s *Screen[T]) mutate(ctx context.Context, title string, fn func(context.Context) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.mu.Unlock()
	defer s.setBusy(false)
	s.publish("busy")

	ctx, stop := s.opContext(ctx)
	defer stop()
	if err := fn(ctx); err != nil {
		if !s.isClosed() {
			s.deps.Alerts.Notify(title, Message(err), alert.Error)
		}
		return err
	}
	return nil
}

// opContext derives a context ending with ctx or with the screen's lifetime.
func (s *Screen[T]) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	s.mu.Lock()
	life := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	if life == nil {
		return ctx, cancel
	}
	stop := context.AfterFunc(life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Screen[T]) setBusy(busy bool) {
	s.mu.Lock()
	s.busy = busy
	s.mu.Unlock()
	s.publish("busy")
}

func (s *Screen[T]) setFormErrors(seq uint64, fields map[string]string) {
	s.mu.Lock()
	if s.form != nil && s.form.seq == seq {
		s.form.Errors = cloneMap(fields)
	}
	s.mu.Unlock()
	s.publish("form")
}

func (s *Screen[T]) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Screen[T]) describe(rec T) string {
	if s.schema.Describe != nil {
		if d := s.schema.Describe(rec); d != "" {
			return d
		}
	}
	return "#" + strconv.Itoa(s.schema.ID(rec))
}

func (s *Screen[T]) publish(detail string) {
	s.deps.Bus.Publish(events.Event{Source: events.Screen, Detail: s.schema.Entity + ":" + detail})
}

// Message is the user facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if core.IsConnectionError(err) {
		return core.ErrConnection.Error()
	}
	return errors.Cause(err).Error()
}

// server side validation errors, eg. api.Error
type fieldErrorer interface {
	FieldErrors() map[string]string
}

func serverFieldErrors(err error) (map[string]string, bool) {
	if fe, ok := errors.Cause(err).(fieldErrorer); ok {
		if fields := fe.FieldErrors(); len(fields) > 0 {
			return fields, true
		}
	}
	return nil, false
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
