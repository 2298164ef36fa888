package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/transport"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/widget"
)

// Outcome describes what one Submit call did.
type Outcome struct {
	// Phase is the controller phase when Submit returned.
	Phase Phase
	// Ignored is set when another attempt was already in flight.
	Ignored bool
	// Issues lists the fields that blocked the attempt.
	Issues []validation.Issue

	AttemptID  string
	Payload    *transport.Payload
	StatusCode int
	// Message is the banner text shown for the attempt.
	Message string
	// Err is the transport error, if the exchange failed.
	Err error
}

// Submitted reports whether the transport was called.
func (o Outcome) Submitted() bool {
	return o.AttemptID != ""
}

// Submit validates every field and, when all pass, sends the payload through
// the transport. The returned error is ErrClosed or nil; submission failures
// are reported through the Outcome and the error banner.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if c.phase == Validating || c.phase == Submitting {
		out := Outcome{Phase: c.phase, Ignored: true}
		c.mu.Unlock()
		c.logger.Debug("submit ignored, attempt in flight")
		return out, nil
	}

	c.cancelDismiss()
	c.phase = Validating
	fields := c.def.Fields()
	results := make([]validation.Result, len(fields))
	var issues []validation.Issue
	for i, field := range fields {
		result, _ := c.validator.Validate(field.ID, c.values[field.ID])
		results[i] = result
		c.setFieldError(field.ID, result.Message)
		if !result.Valid {
			issues = append(issues, validation.Issue{Field: field.ID, Message: result.Message})
		}
	}
	if len(issues) > 0 {
		c.phase = Idle
		c.hideBanners()
		c.mu.Unlock()
		c.notifyAll(fields, results)
		c.logger.Debug("submit blocked by validation", "issues", len(issues))
		return Outcome{Phase: Idle, Issues: issues}, nil
	}

	req := transport.Request{
		URL:       c.def.Action,
		Method:    c.def.SubmitMethod(),
		FormID:    c.def.ID,
		AttemptID: c.cfg.newID(),
		Payload:   c.payloadLocked(),
	}
	c.phase = Submitting
	c.setBusy(true)
	c.mu.Unlock()
	c.notifyAll(fields, results)

	start := c.cfg.now()
	resp, err := c.transport.Submit(ctx, req)
	elapsed := c.cfg.now().Sub(start)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Outcome{Phase: Submitting, AttemptID: req.AttemptID, Payload: req.Payload, Err: err}, ErrClosed
	}
	c.setBusy(false)
	out := Outcome{AttemptID: req.AttemptID, Payload: req.Payload, Err: err}
	switch {
	case err != nil:
		out.Message = c.exceptionMessage(err)
		c.phase = Error
		c.showBanner(false, out.Message)
	case resp.OK():
		out.StatusCode = resp.StatusCode
		out.Message = c.successMessage(resp)
		c.phase = Success
		c.resetLocked()
		c.showBanner(true, out.Message)
	default:
		out.StatusCode = resp.StatusCode
		out.Message = c.failureMessage(resp)
		c.phase = Error
		c.showBanner(false, out.Message)
	}
	out.Phase = c.phase
	c.mu.Unlock()

	c.logOutcome(out, elapsed)
	if c.cfg.observer != nil {
		c.cfg.observer.SubmissionFinished(c.def.ID, out, elapsed)
	}
	return out, nil
}

// payloadLocked serialises the current values: hidden inputs first, then
// fields in schema order, then formId. Text kinds are always present; option
// kinds are omitted when nothing is selected.
func (c *Controller) payloadLocked() *transport.Payload {
	payload := transport.NewPayload()
	for _, hidden := range c.tree.HiddenInputs() {
		if name := hidden.Attr("name"); name != "" {
			payload.Add(name, hidden.Attr("value"))
		}
	}
	for _, field := range c.def.Fields() {
		values := c.values[field.ID]
		if field.Kind.HasOptions() {
			for _, v := range values {
				payload.Add(field.ID, v)
			}
			continue
		}
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		payload.Add(field.ID, value)
	}
	payload.Set("formId", c.def.ID)
	return payload
}

// resetLocked clears every value and field error after a successful
// submission.
func (c *Controller) resetLocked() {
	c.values = make(map[string][]string)
	for _, field := range c.def.Fields() {
		c.applyValue(field)
	}
	c.clearFieldErrors()
	c.resizeAll()
}

func (c *Controller) setBusy(busy bool) {
	if button := c.tree.SubmitButton(); button != nil {
		button.SetProp("disabled", busy)
		button.SetProp("aria-busy", busy)
	}
}

func (c *Controller) successMessage(resp transport.Response) string {
	if msg := gjson.GetBytes(resp.Body, "message"); msg.Type == gjson.String && msg.String() != "" && gjson.ValidBytes(resp.Body) {
		return msg.String()
	}
	return c.def.SuccessMessage
}

func (c *Controller) failureMessage(resp transport.Response) string {
	base := fmt.Sprintf("%s (%d)", c.def.ErrorMessage, resp.StatusCode)
	if !jsonBody(resp) {
		return base + ": " + c.cfg.catalog.Get(messages.KeyInvalidResponse)
	}
	if msg := gjson.GetBytes(resp.Body, "error"); msg.Type == gjson.String && msg.String() != "" {
		return msg.String()
	}
	return base
}

func (c *Controller) exceptionMessage(err error) string {
	if transport.IsConnectivity(err) {
		return c.cfg.catalog.Get(messages.KeyConnectionError)
	}
	return c.cfg.catalog.Get(messages.KeyConnectionRetry)
}

// jsonBody reports whether resp carries a well-formed JSON document. An empty
// content type is sniffed from the body.
func jsonBody(resp transport.Response) bool {
	ct := strings.ToLower(strings.TrimSpace(resp.ContentType))
	if ct != "" && !strings.Contains(ct, "json") {
		return false
	}
	return len(resp.Body) > 0 && gjson.ValidBytes(resp.Body)
}

func (c *Controller) logOutcome(out Outcome, elapsed time.Duration) {
	attrs := []any{
		"attempt", out.AttemptID,
		"phase", out.Phase.String(),
		"elapsed", elapsed,
	}
	switch {
	case out.Err != nil:
		c.logger.Warn("submission failed", append(attrs, "error", out.Err)...)
	case out.Phase == Error:
		c.logger.Warn("submission rejected", append(attrs, "status", out.StatusCode)...)
	default:
		c.logger.Info("submission accepted", append(attrs, "status", out.StatusCode)...)
	}
}

func (c *Controller) notifyAll(fields []model.Field, results []validation.Result) {
	if c.cfg.observer == nil {
		return
	}
	for i, field := range fields {
		c.cfg.observer.FieldValidated(c.def.ID, field.ID, results[i])
	}
}

// Banners is the visible state of the two response banners.
type Banners struct {
	Success        string `json:"success,omitempty"`
	SuccessVisible bool   `json:"successVisible"`
	Error          string `json:"error,omitempty"`
	ErrorVisible   bool   `json:"errorVisible"`
}

// Snapshot is a consistent read of the controller state.
type Snapshot struct {
	FormID  string              `json:"formId"`
	Phase   string              `json:"phase"`
	// Message is the text of the banner for the current result. It is empty
	// once the banner is dismissed or an edit returns the form to Idle.
	Message string              `json:"message,omitempty"`
	Values  map[string][]string `json:"values"`
	Errors  map[string]string   `json:"errors,omitempty"`
	Banners Banners             `json:"banners"`
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Values returns a copy of the current values keyed by field id. Fields
// without a value are absent.
func (c *Controller) Values() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valuesLocked()
}

func (c *Controller) valuesLocked() map[string][]string {
	out := make(map[string][]string, len(c.values))
	for id, values := range c.values {
		out[id] = append([]string(nil), values...)
	}
	return out
}

// FieldError returns the message shown for a field, if its slot is visible.
func (c *Controller) FieldError(fieldID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg, ok := c.shown[fieldID]
	return msg, ok
}

// Banners reports banner text and visibility.
func (c *Controller) Banners() Banners {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bannersLocked()
}

func (c *Controller) bannersLocked() Banners {
	success, failure := c.tree.SuccessBanner(), c.tree.ErrorBanner()
	return Banners{
		Success:        success.TextContent(),
		SuccessVisible: widget.Visible(success),
		Error:          failure.TextContent(),
		ErrorVisible:   widget.Visible(failure),
	}
}

// Snapshot returns phase, values, field errors and banners read under one
// lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(map[string]string, len(c.shown))
	for id, msg := range c.shown {
		errs[id] = msg
	}
	return Snapshot{
		FormID:  c.def.ID,
		Phase:   c.phase.String(),
		Message: c.message,
		Values:  c.valuesLocked(),
		Errors:  errs,
		Banners: c.bannersLocked(),
	}
}

// Tree returns a deep copy of the tree with the current presentation.
func (c *Controller) Tree() *widget.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Clone()
}
