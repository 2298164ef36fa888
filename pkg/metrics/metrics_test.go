package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestCollector_SubmissionOutcomes(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()))

	c.SubmissionFinished("contact", controller.Outcome{Phase: controller.Success, AttemptID: "a"}, 20*time.Millisecond)
	c.SubmissionFinished("contact", controller.Outcome{Phase: controller.Error, AttemptID: "b", StatusCode: 503}, time.Millisecond)
	c.SubmissionFinished("contact", controller.Outcome{Phase: controller.Error, AttemptID: "c", Err: errors.New("down")}, time.Millisecond)
	c.SubmissionFinished("contact", controller.Outcome{Phase: controller.Idle, Issues: []validation.Issue{{Field: "name"}}}, 0)

	for outcome, want := range map[string]float64{
		OutcomeSuccess:  1,
		OutcomeRejected: 1,
		OutcomeFailed:   1,
		OutcomeInvalid:  1,
	} {
		if got := counterValue(t, c.submissions.WithLabelValues("contact", outcome)); got != want {
			t.Fatalf("submissions_total(%s)=%v, want %v", outcome, got, want)
		}
	}
	if got := histogramCount(t, c.duration.WithLabelValues("contact")); got != 3 {
		t.Fatalf("submission_duration_seconds count=%d, want 3", got)
	}
}

func TestCollector_FieldValidations(t *testing.T) {
	c := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	c.FieldValidated("contact", "email", validation.Result{Valid: true})
	c.FieldValidated("contact", "email", validation.Result{Message: "Enter a valid email"})
	c.FieldValidated("contact", "email", validation.Result{Message: "Enter a valid email"})

	if got := counterValue(t, c.validations.WithLabelValues("contact", "email", "valid")); got != 1 {
		t.Fatalf("valid=%v, want 1", got)
	}
	if got := counterValue(t, c.validations.WithLabelValues("contact", "email", "invalid")); got != 2 {
		t.Fatalf("invalid=%v, want 2", got)
	}
}

func TestCollector_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithConstLabels(prometheus.Labels{"app": "test"}))
	c.FieldValidated("f", "x", validation.Result{Valid: true})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}
	if !names["formflow_field_validations_total"] {
		t.Fatalf("expected formflow_field_validations_total in %v", names)
	}
}
