package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTracerName   = "github.com/goliatone/go-formflow/pkg/transport"
	defaultMaxBodyBytes = 1 << 20
	defaultTimeout      = 15 * time.Second

	// HeaderSubmissionID carries the attempt id so servers can deduplicate.
	HeaderSubmissionID = "X-Submission-ID"
)

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTP)

// WithClient overrides the HTTP client.
func WithClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithTracerProvider resolves the tracer from provider instead of the global
// OpenTelemetry provider.
func WithTracerProvider(provider trace.TracerProvider) HTTPOption {
	return func(h *HTTP) {
		if provider != nil {
			h.tracer = provider.Tracer(defaultTracerName)
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithHeader adds a header sent with every submission.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.headers.Add(key, value)
	}
}

// HTTP submits payloads as JSON over net/http.
type HTTP struct {
	client  *http.Client
	tracer  trace.Tracer
	maxBody int64
	headers http.Header
}

var _ Transport = (*HTTP)(nil)

// NewHTTP builds an HTTP transport with a 15s client timeout by default.
func NewHTTP(options ...HTTPOption) *HTTP {
	h := &HTTP{
		client:  &http.Client{Timeout: defaultTimeout},
		maxBody: defaultMaxBodyBytes,
		headers: make(http.Header),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(defaultTracerName)
	}
	return h
}

// Submit encodes req.Payload as JSON and sends it to req.URL. Failures that
// leave no response are returned as *ConnectivityError.
func (h *HTTP) Submit(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.URL) == "" {
		return Response{}, errors.New("transport: url is required")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}
	attempt := req.AttemptID
	if attempt == "" {
		attempt = uuid.NewString()
	}

	ctx, span := h.tracer.Start(ctx, "formflow.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", req.URL),
			attribute.String("formflow.form_id", req.FormID),
			attribute.String("formflow.attempt_id", attempt),
		),
	)
	defer span.End()

	payload := req.Payload
	if payload == nil {
		payload = NewPayload()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode payload")
		return Response{}, fmt.Errorf("transport: encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return Response{}, fmt.Errorf("transport: build request: %w", err)
	}
	for key, values := range h.headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderSubmissionID, attempt)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unreachable")
		return Response{}, &ConnectivityError{URL: req.URL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return Response{}, &ConnectivityError{URL: req.URL, Err: err}
	}

	out := Response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if !out.OK() {
		span.SetStatus(codes.Error, resp.Status)
	}
	return out, nil
}
