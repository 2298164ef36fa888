package controller_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schedule"
	"github.com/goliatone/go-formflow/pkg/testsupport"
	"github.com/goliatone/go-formflow/pkg/transport"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/widget"
)

type harness struct {
	ctrl  *controller.Controller
	clock *schedule.Manual
	stub  *testsupport.StubTransport
}

func newHarness(t *testing.T, def *model.FormDefinition, stub *testsupport.StubTransport, opts ...controller.Option) harness {
	t.Helper()

	tree, err := render.New(render.WithHiddenFields(render.HiddenField{Name: "source", Value: "web"})).Render(def, "es")
	require.NoError(t, err)

	clock := schedule.NewManual()
	opts = append([]controller.Option{
		controller.WithScheduler(clock),
		controller.WithAttemptIDs(func() string { return "attempt-1" }),
	}, opts...)

	ctrl, err := controller.New(def, tree, stub, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })

	return harness{ctrl: ctrl, clock: clock, stub: stub}
}

func fillContact(t *testing.T, ctrl *controller.Controller) {
	t.Helper()
	require.NoError(t, ctrl.Input("name", "Mario Rossi"))
	require.NoError(t, ctrl.Input("email", "mario@example.com"))
	require.NoError(t, ctrl.Input("plan", "pro"))
	require.NoError(t, ctrl.Check("topics", "business", true))
	require.NoError(t, ctrl.Check("topics", "tech", true))
}

func TestSubmit_EmptyRequiredFieldBlocksTransport(t *testing.T) {
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusOK, `{}`))

	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Submitted())
	assert.Equal(t, controller.Idle, out.Phase)
	assert.Equal(t, []validation.Issue{{Field: "name", Message: "Este campo es obligatorio"}}, out.Issues)
	assert.Equal(t, 0, h.stub.Calls())

	msg, shown := h.ctrl.FieldError("name")
	assert.True(t, shown)
	assert.Equal(t, "Este campo es obligatorio", msg)

	tree := h.ctrl.Tree()
	assert.True(t, widget.Visible(tree.ErrorSlot("name")))
	assert.True(t, tree.Controls("name")[0].HasClass(widget.ClassInvalid))
}

func TestSubmit_PatternFailureUsesRuleMessage(t *testing.T) {
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusOK, `{}`))
	require.NoError(t, h.ctrl.Input("name", "A1"))

	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Issues, 1)
	assert.Equal(t, "El nombre solo puede contener letras y espacios", out.Issues[0].Message)
	assert.Equal(t, 0, h.stub.Calls())
}

func TestSubmit_SuccessShowsServerMessageAndClearsValues(t *testing.T) {
	h := newHarness(t, testsupport.Contact(), testsupport.RespondJSON(http.StatusOK, `{"message":"Gracias"}`))
	fillContact(t, h.ctrl)
	require.NoError(t, h.ctrl.Input("message", strings.Repeat("x", 130)))

	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, controller.Success, out.Phase)
	assert.Equal(t, "Gracias", out.Message)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, 1, h.stub.Calls())

	banners := h.ctrl.Banners()
	assert.True(t, banners.SuccessVisible)
	assert.Equal(t, "Gracias", banners.Success)
	assert.False(t, banners.ErrorVisible)
	assert.Empty(t, h.ctrl.Values())

	tree := h.ctrl.Tree()
	assert.Equal(t, "", tree.Controls("name")[0].Attr("value"))
	assert.Equal(t, "2", tree.Controls("message")[0].Attr("rows"))
	for _, box := range tree.Controls("topics") {
		assert.False(t, box.Flag("checked"))
	}
	assert.False(t, tree.SubmitButton().Flag("disabled"))
}

func TestSubmit_PayloadShape(t *testing.T) {
	h := newHarness(t, testsupport.Contact(), testsupport.RespondJSON(http.StatusOK, `{}`))
	fillContact(t, h.ctrl)

	_, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	req, ok := h.stub.Last()
	require.True(t, ok)
	assert.Equal(t, "https://forms.example.test/api/contact.json", req.URL)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "attempt-1", req.AttemptID)

	payload := req.Payload
	assert.Equal(t, []string{"source", "name", "email", "phone", "age", "plan", "topics", "message", "formId"}, payload.Keys())
	assert.Equal(t, "web", payload.Get("source"))
	assert.Equal(t, "", payload.Get("phone"))
	assert.Equal(t, "pro", payload.Get("plan"))
	assert.Nil(t, payload.Get("contact"))
	assert.Equal(t, []string{"tech", "business"}, payload.Get("topics"))
	assert.Equal(t, "contact-form", payload.Get("formId"))
}

func TestSubmit_SuccessWithoutMessageFallsBack(t *testing.T) {
	cases := map[string]string{
		"no message": `{"status":"ok"}`,
		"not json":   `<html>ok</html>`,
		"non string": `{"message":42}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusCreated, body))
			require.NoError(t, h.ctrl.Input("name", "Ana"))

			out, err := h.ctrl.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, controller.Success, out.Phase)
			assert.Equal(t, "Enviado", out.Message)
		})
	}
}

func TestSubmit_ServerErrorShowsBodyAndKeepsValues(t *testing.T) {
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusServiceUnavailable, `{"error":"Servidor ocupado"}`))
	require.NoError(t, h.ctrl.Input("name", "Ana"))

	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, controller.Error, out.Phase)
	banners := h.ctrl.Banners()
	assert.True(t, banners.ErrorVisible)
	assert.Equal(t, "Servidor ocupado", banners.Error)
	assert.False(t, banners.SuccessVisible)
	assert.Equal(t, map[string][]string{"name": {"Ana"}}, h.ctrl.Values())
}

func TestSubmit_ServerErrorFallbacks(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"json without error", "application/json", `{"detail":"x"}`, "Ha ocurrido un error (500)"},
		{"sniffed json", "", `{}`, "Ha ocurrido un error (500)"},
		{"malformed json", "application/json", `{"error":`, "Ha ocurrido un error (500): Respuesta inválida"},
		{"html", "text/html", `<h1>boom</h1>`, "Ha ocurrido un error (500): Respuesta inválida"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &testsupport.StubTransport{Response: transport.Response{
				StatusCode:  http.StatusInternalServerError,
				ContentType: tc.contentType,
				Body:        []byte(tc.body),
			}}
			h := newHarness(t, testsupport.SingleName(), stub)
			require.NoError(t, h.ctrl.Input("name", "Ana"))

			out, err := h.ctrl.Submit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Message)
		})
	}
}

func TestSubmit_TransportExceptions(t *testing.T) {
	connectivity := testsupport.Fail(&transport.ConnectivityError{URL: "x", Err: errors.New("dial tcp: refused")})
	h := newHarness(t, testsupport.SingleName(), connectivity)
	require.NoError(t, h.ctrl.Input("name", "Ana"))

	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, controller.Error, out.Phase)
	assert.Error(t, out.Err)
	assert.Equal(t, "Error de conexión. Verifique que el servidor esté funcionando.", out.Message)

	other := newHarness(t, testsupport.SingleName(), testsupport.Fail(errors.New("encode payload")))
	require.NoError(t, other.ctrl.Input("name", "Ana"))
	out, err = other.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Error de conexión. Por favor, inténtalo de nuevo.", out.Message)
	assert.NotEqual(t, "Ha ocurrido un error", out.Message)
}

func TestBanner_AutoDismissAndReplacement(t *testing.T) {
	stub := testsupport.RespondJSON(http.StatusOK, `{"message":"Gracias"}`)
	h := newHarness(t, testsupport.SingleName(), stub, controller.WithDismissDelay(5*time.Second))

	require.NoError(t, h.ctrl.Input("name", "Ana"))
	_, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, h.clock.Pending())

	h.clock.Advance(3 * time.Second)
	require.NoError(t, h.ctrl.Input("name", "Eva"))
	stub.Response.StatusCode = http.StatusBadRequest
	stub.Response.Body = []byte(`{"error":"Duplicado"}`)
	_, err = h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	banners := h.ctrl.Banners()
	assert.False(t, banners.SuccessVisible)
	assert.True(t, banners.ErrorVisible)
	assert.Equal(t, 1, h.clock.Pending())

	// The first dismiss was due at 5s and must not hide the newer banner.
	h.clock.Advance(3 * time.Second)
	assert.True(t, h.ctrl.Banners().ErrorVisible)

	h.clock.Advance(2 * time.Second)
	banners = h.ctrl.Banners()
	assert.False(t, banners.ErrorVisible)
	assert.False(t, banners.SuccessVisible)
	assert.Equal(t, 0, h.clock.Pending())
}

func TestInput_ResetsTerminalPhaseAndRevalidatesShownErrors(t *testing.T) {
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusBadRequest, `{"error":"no"}`))

	_, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	_, shown := h.ctrl.FieldError("name")
	require.True(t, shown)

	require.NoError(t, h.ctrl.Input("name", "A"))
	msg, shown := h.ctrl.FieldError("name")
	assert.True(t, shown)
	assert.Equal(t, "Debe tener al menos 2 caracteres", msg)

	require.NoError(t, h.ctrl.Input("name", "Ana"))
	_, shown = h.ctrl.FieldError("name")
	assert.False(t, shown)

	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, controller.Error, out.Phase)

	require.NoError(t, h.ctrl.Input("name", "Anabel"))
	assert.Equal(t, controller.Idle, h.ctrl.Phase())
}

func TestInput_DoesNotValidateUntouchedField(t *testing.T) {
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusOK, `{}`))

	require.NoError(t, h.ctrl.Input("name", "1"))
	_, shown := h.ctrl.FieldError("name")
	assert.False(t, shown)

	result, err := h.ctrl.Blur("name")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	_, shown = h.ctrl.FieldError("name")
	assert.True(t, shown)
	assert.Equal(t, controller.Idle, h.ctrl.Phase())
}

func TestInput_RejectsUnknownFieldsAndOptions(t *testing.T) {
	h := newHarness(t, testsupport.Contact(), testsupport.RespondJSON(http.StatusOK, `{}`))

	assert.ErrorIs(t, h.ctrl.Input("nope", "x"), controller.ErrUnknownField)
	assert.ErrorIs(t, h.ctrl.Input("plan", "enterprise"), controller.ErrUnknownOption)
	assert.ErrorIs(t, h.ctrl.Check("topics", "cooking", true), controller.ErrUnknownOption)
	assert.Error(t, h.ctrl.Check("plan", "pro", true))
	assert.Error(t, h.ctrl.Input("name", "a", "b"))
}

func TestCheck_GroupsFollowOptionOrder(t *testing.T) {
	h := newHarness(t, testsupport.Contact(), testsupport.RespondJSON(http.StatusOK, `{}`))

	require.NoError(t, h.ctrl.Check("topics", "business", true))
	require.NoError(t, h.ctrl.Check("topics", "tech", true))
	require.NoError(t, h.ctrl.Check("topics", "tech", true))
	assert.Equal(t, []string{"tech", "business"}, h.ctrl.Values()["topics"])

	require.NoError(t, h.ctrl.Check("topics", "tech", false))
	assert.Equal(t, []string{"business"}, h.ctrl.Values()["topics"])

	require.NoError(t, h.ctrl.Check("contact", "email", true))
	require.NoError(t, h.ctrl.Check("contact", "phone", true))
	assert.Equal(t, []string{"phone"}, h.ctrl.Values()["contact"])

	tree := h.ctrl.Tree()
	for _, radio := range tree.Controls("contact") {
		assert.Equal(t, radio.Attr("value") == "phone", radio.Flag("checked"))
	}

	require.NoError(t, h.ctrl.Input("plan", "free"))
	sel := h.ctrl.Tree().Controls("plan")[0]
	for _, opt := range sel.Children {
		assert.Equal(t, opt.Attr("value") == "free", opt.Flag("selected"))
	}
}

func TestTextarea_ResizeImmediateAndOnPaste(t *testing.T) {
	h := newHarness(t, testsupport.Contact(), testsupport.RespondJSON(http.StatusOK, `{}`), controller.WithAutoResize(10, 2))

	rows := func() string {
		return h.ctrl.Tree().Controls("message")[0].Attr("rows")
	}
	assert.Equal(t, "2", rows())

	require.NoError(t, h.ctrl.Input("message", "one\ntwo\nthree\nfour"))
	assert.Equal(t, "4", rows())

	require.NoError(t, h.ctrl.Paste("message", strings.Repeat("x", 25)))
	assert.Equal(t, "4", rows(), "paste resize is deferred")
	require.NoError(t, h.ctrl.Paste("message", strings.Repeat("x", 51)))
	assert.Equal(t, 1, h.clock.Pending())

	h.clock.Flush()
	assert.Equal(t, "6", rows())
}

func TestTextareaRows(t *testing.T) {
	assert.Equal(t, 2, controller.TextareaRows("", 60, 2))
	assert.Equal(t, 2, controller.TextareaRows("short", 60, 2))
	assert.Equal(t, 3, controller.TextareaRows(strings.Repeat("é", 121), 60, 2))
	assert.Equal(t, 5, controller.TextareaRows("a\n\nb\nc\nd", 60, 2))
}

func TestSubmit_IgnoredWhileInFlight(t *testing.T) {
	stub := testsupport.RespondJSON(http.StatusOK, `{}`)
	stub.Hold = make(chan struct{})
	h := newHarness(t, testsupport.SingleName(), stub)
	require.NoError(t, h.ctrl.Input("name", "Ana"))

	var (
		wg    sync.WaitGroup
		first controller.Outcome
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, _ = h.ctrl.Submit(context.Background())
	}()

	require.Eventually(t, func() bool { return h.ctrl.Phase() == controller.Submitting }, time.Second, time.Millisecond)
	assert.True(t, h.ctrl.Tree().SubmitButton().Flag("disabled"))

	second, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Ignored)

	close(stub.Hold)
	wg.Wait()
	assert.Equal(t, controller.Success, first.Phase)
	assert.Equal(t, 1, stub.Calls())
}

func TestClose_StopsTimersAndRejectsCalls(t *testing.T) {
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusOK, `{}`))
	require.NoError(t, h.ctrl.Input("name", "Ana"))
	_, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.ctrl.Close())
	assert.Equal(t, 0, h.clock.Pending())
	assert.ErrorIs(t, h.ctrl.Close(), controller.ErrClosed)
	assert.ErrorIs(t, h.ctrl.Input("name", "x"), controller.ErrClosed)
	_, err = h.ctrl.Submit(context.Background())
	assert.ErrorIs(t, err, controller.ErrClosed)
}

type recorder struct {
	mu        sync.Mutex
	validated []string
	outcomes  []controller.Outcome
}

func (r *recorder) FieldValidated(_, fieldID string, result validation.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validated = append(r.validated, fieldID)
}

func (r *recorder) SubmissionFinished(_ string, outcome controller.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func TestObserver_ReceivesEvents(t *testing.T) {
	rec := &recorder{}
	h := newHarness(t, testsupport.SingleName(), testsupport.RespondJSON(http.StatusOK, `{}`),
		controller.WithObserver(controller.Observers{rec}))

	_, err := h.ctrl.Blur("name")
	require.NoError(t, err)
	require.NoError(t, h.ctrl.Input("name", "Ana"))
	_, err = h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "name", "name"}, rec.validated)
	require.Len(t, rec.outcomes, 1)
	assert.Equal(t, controller.Success, rec.outcomes[0].Phase)
}

func TestNew_RejectsMismatchedTree(t *testing.T) {
	tree, err := render.New().Render(testsupport.Contact(), "es")
	require.NoError(t, err)

	_, err = controller.New(testsupport.SingleName(), tree, testsupport.RespondJSON(http.StatusOK, `{}`))
	assert.ErrorIs(t, err, controller.ErrTreeMismatch)

	_, err = controller.New(nil, tree, testsupport.RespondJSON(http.StatusOK, `{}`))
	assert.True(t, model.IsConfigError(err))
}

func TestSubmit_BlockedAttemptHidesPreviousBanner(t *testing.T) {
	stub := testsupport.RespondJSON(http.StatusOK, `{"message":"Gracias"}`)
	h := newHarness(t, testsupport.SingleName(), stub, controller.WithDismissDelay(5*time.Second))

	require.NoError(t, h.ctrl.Input("name", "Ana"))
	out, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, controller.Success, out.Phase)
	require.True(t, h.ctrl.Banners().SuccessVisible)

	// Values were cleared by the success, so this attempt is blocked.
	out, err = h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, out.Issues)
	assert.Equal(t, controller.Idle, out.Phase)

	banners := h.ctrl.Banners()
	assert.False(t, banners.SuccessVisible)
	assert.False(t, banners.ErrorVisible)
	assert.Empty(t, h.ctrl.Snapshot().Message)
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(5 * time.Second)
	banners = h.ctrl.Banners()
	assert.False(t, banners.SuccessVisible)
	assert.False(t, banners.ErrorVisible)
	assert.Equal(t, 1, stub.Calls())
}

func TestSnapshot_MessageClearedAfterResult(t *testing.T) {
	stub := testsupport.RespondJSON(http.StatusBadRequest, `{"error":"Duplicado"}`)
	h := newHarness(t, testsupport.SingleName(), stub, controller.WithDismissDelay(5*time.Second))

	require.NoError(t, h.ctrl.Input("name", "Ana"))
	_, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Duplicado", h.ctrl.Snapshot().Message)

	h.clock.Advance(5 * time.Second)
	snap := h.ctrl.Snapshot()
	assert.Empty(t, snap.Message)
	assert.Equal(t, controller.Error.String(), snap.Phase)

	_, err = h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Duplicado", h.ctrl.Snapshot().Message)

	require.NoError(t, h.ctrl.Input("name", "Eva"))
	snap = h.ctrl.Snapshot()
	assert.Equal(t, controller.Idle.String(), snap.Phase)
	assert.Empty(t, snap.Message)
}
