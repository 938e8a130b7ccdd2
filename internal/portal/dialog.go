package portal

import (
	"context"
	"errors"
	"sync"

	"fleetmove/internal/moveapi"
)

var (
	ErrSubmitInFlight = errors.New("portal: a submit is already in flight")
	ErrNoSelection    = errors.New("portal: nothing is selected")
)

// DialogState is the lifecycle of one submit attempt.
type DialogState string

const (
	StateIdle       DialogState = "idle"
	StateSubmitting DialogState = "submitting"
	StateSuccess    DialogState = "success"
	StateError      DialogState = "error"
)

const defaultSuccessMessage = "Success!"

// DialogConfig wires a dialog to its page.
type DialogConfig struct {
	Title          string
	SuccessMessage string
	Notifier       *Notifier
	// Ready reports whether the dialog has what it acts on, e.g. a selection.
	Ready func() bool
	// OnSuccess runs once after a successful submit, typically a refetch.
	OnSuccess func(ctx context.Context)
}

// dialog carries the open flag and the submit discipline shared by form and
// confirm dialogs: one submit in flight, toast on the outcome, close and
// refresh on success, stay open on failure.
type dialog struct {
	cfg DialogConfig

	mu      sync.Mutex
	open    bool
	state   DialogState
	message string
}

func newDialog(cfg DialogConfig) dialog {
	if cfg.SuccessMessage == "" {
		cfg.SuccessMessage = defaultSuccessMessage
	}
	if cfg.Notifier == nil {
		cfg.Notifier = &Notifier{}
	}
	return dialog{cfg: cfg, state: StateIdle}
}

func (d *dialog) ready() bool {
	return d.cfg.Ready == nil || d.cfg.Ready()
}

func (d *dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Close hides the dialog. The selection it acted on is left as is.
func (d *dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

// CanSubmit is false while a submit is running or nothing is ready to act on.
func (d *dialog) CanSubmit() bool {
	d.mu.Lock()
	submitting := d.state == StateSubmitting
	d.mu.Unlock()
	return !submitting && d.ready()
}

// run executes one submit attempt. prepare runs under the dialog lock before
// anything is sent; a non-nil error from it aborts the attempt.
func (d *dialog) run(ctx context.Context, prepare func() error, send func(context.Context) error, onError func(error)) (err error) {
	d.mu.Lock()
	if d.state == StateSubmitting {
		d.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !d.ready() {
		d.mu.Unlock()
		return ErrNoSelection
	}
	if prepare != nil {
		if perr := prepare(); perr != nil {
			d.mu.Unlock()
			return perr
		}
	}
	d.state = StateSubmitting
	d.message = ""
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.state == StateSubmitting {
			d.state = StateError
		}
	}()

	if err = send(ctx); err != nil {
		msg := moveapi.MessageOf(err)
		d.mu.Lock()
		d.state = StateError
		d.message = msg
		if onError != nil {
			onError(err)
		}
		d.mu.Unlock()
		d.cfg.Notifier.Error(msg)
		return err
	}

	d.mu.Lock()
	d.state = StateSuccess
	d.open = false
	d.mu.Unlock()
	d.cfg.Notifier.Success(d.cfg.SuccessMessage)
	if d.cfg.OnSuccess != nil {
		d.cfg.OnSuccess(ctx)
	}
	return nil
}

// SubmitFunc sends validated form values.
type SubmitFunc func(ctx context.Context, vals Values) error

// FormDialog is a create or update dialog driven by a list of fields.
type FormDialog struct {
	dialog
	Fields []Field
	submit SubmitFunc

	values Values
	errs   FieldErrors
}

func NewFormDialog(cfg DialogConfig, fields []Field, submit SubmitFunc) *FormDialog {
	return &FormDialog{
		dialog: newDialog(cfg),
		Fields: fields,
		submit: submit,
		values: DefaultValues(fields),
	}
}

// Open shows the dialog with its current values.
func (d *FormDialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.state = StateIdle
	d.message = ""
	d.errs = nil
}

// Reset replaces the form values; unknown names are ignored.
func (d *FormDialog) Reset(vals Values) {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := DefaultValues(d.Fields)
	for k := range next {
		next[k] = vals[k]
	}
	d.values = next
	d.errs = nil
}

func (d *FormDialog) Values() Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values.clone()
}

func (d *FormDialog) Errors() FieldErrors {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errs == nil {
		return nil
	}
	out := make(FieldErrors, len(d.errs))
	for k, v := range d.errs {
		out[k] = v
	}
	return out
}

// Submit validates vals and sends them. Validation failures return
// FieldErrors and send nothing. The entered values are kept either way so a
// failed attempt can be corrected and retried.
func (d *FormDialog) Submit(ctx context.Context, vals Values) error {
	vals = FormValues(d.Fields, func(name string) string { return vals[name] })
	prepare := func() error {
		d.values = vals.clone()
		if errs := ValidateFields(d.Fields, vals); errs != nil {
			d.errs = errs
			return errs
		}
		d.errs = nil
		return nil
	}
	onError := func(err error) {
		var apiErr *moveapi.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			d.errs = FieldErrors(apiErr.Fields)
		}
	}
	return d.run(ctx, prepare, func(ctx context.Context) error { return d.submit(ctx, vals) }, onError)
}

// DialogField is a field with its current value and message, for rendering.
type DialogField struct {
	Field
	Value string
	Error string
}

type DialogView struct {
	Open      bool
	Title     string
	State     DialogState
	Message   string
	CanSubmit bool
	Fields    []DialogField
}

func (d *FormDialog) View() DialogView {
	can := d.CanSubmit()
	d.mu.Lock()
	defer d.mu.Unlock()
	v := DialogView{
		Open:      d.open,
		Title:     d.cfg.Title,
		State:     d.state,
		Message:   d.message,
		CanSubmit: can,
		Fields:    make([]DialogField, 0, len(d.Fields)),
	}
	for _, f := range d.Fields {
		v.Fields = append(v.Fields, DialogField{Field: f, Value: d.values[f.Name], Error: d.errs[f.Name]})
	}
	return v
}

// ConfirmDialog asks for confirmation and then runs one action, e.g. a delete.
type ConfirmDialog struct {
	dialog
	Prompt  string
	confirm func(ctx context.Context) error
}

func NewConfirmDialog(cfg DialogConfig, prompt string, confirm func(ctx context.Context) error) *ConfirmDialog {
	return &ConfirmDialog{dialog: newDialog(cfg), Prompt: prompt, confirm: confirm}
}

func (d *ConfirmDialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.state = StateIdle
	d.message = ""
}

func (d *ConfirmDialog) Confirm(ctx context.Context) error {
	return d.run(ctx, nil, d.confirm, nil)
}

func (d *ConfirmDialog) View() DialogView {
	can := d.CanSubmit()
	d.mu.Lock()
	defer d.mu.Unlock()
	return DialogView{Open: d.open, Title: d.cfg.Title, State: d.state, Message: d.message, CanSubmit: can}
}
