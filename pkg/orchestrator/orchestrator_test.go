package orchestrator_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schedule"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

const fixture = "../schema/testdata/forms.yaml"

func TestGenerate_FromSource(t *testing.T) {
	gen := orchestrator.New()

	out, err := gen.Generate(context.Background(), orchestrator.Request{
		Source: schema.SourceFromFile(fixture),
		Key:    "newsletter",
		Locale: "es",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.HasPrefix(html, `<form id="newsletter-form"`) {
		t.Fatalf("expected form fragment, got %q", html[:min(len(html), 80)])
	}
	if !strings.Contains(html, `data-error-for="newsletter-email"`) {
		t.Fatalf("expected error slot for newsletter-email")
	}
}

func TestGenerate_TextOutputAndUnknownOutput(t *testing.T) {
	gen := orchestrator.New()
	if err := gen.Load(context.Background(), schema.SourceFromFile(fixture)); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, err := gen.Generate(context.Background(), orchestrator.Request{Key: "newsletter", Output: "text"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "== Suscríbete a nuestro Newsletter ==") {
		t.Fatalf("unexpected text output:\n%s", out)
	}

	if _, err := gen.Generate(context.Background(), orchestrator.Request{Key: "newsletter", Output: "pdf"}); err == nil {
		t.Fatalf("expected unknown output error")
	}
}

func TestGenerate_MissingKeyIsConfigError(t *testing.T) {
	gen := orchestrator.New()
	_, err := gen.Generate(context.Background(), orchestrator.Request{Key: "nope"})
	if !model.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestMount_UsesStoreMessagesAndTransport(t *testing.T) {
	stub := testsupport.RespondJSON(http.StatusOK, `{"message":"ok"}`)
	gen := orchestrator.New(
		orchestrator.WithTransport(stub),
		orchestrator.WithRenderOptions(render.WithHiddenFields(render.Hidden("source", "cli"))),
		orchestrator.WithControllerOptions(controller.WithScheduler(schedule.NewManual())),
	)
	if err := gen.Load(context.Background(), schema.SourceFromFile(fixture)); err != nil {
		t.Fatalf("load: %v", err)
	}

	ctrl, err := gen.Mount("newsletter", "es")
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer ctrl.Close()

	out, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(out.Issues) == 0 || out.Issues[0].Message != "Obligatorio" {
		t.Fatalf("expected document message override, got %+v", out.Issues)
	}

	if err := ctrl.Input("newsletter-email", "ana@example.com"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if err := ctrl.Input("frequency", "weekly"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	req, ok := stub.Last()
	if !ok {
		t.Fatalf("expected transport call")
	}
	if got := req.Payload.Get("source"); got != "cli" {
		t.Fatalf("expected hidden field, got %v", got)
	}
}
