// Package transport defines the submission collaborator used by the
// controller and ships an HTTP implementation.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// Request is one submission attempt.
type Request struct {
	URL       string
	Method    string
	FormID    string
	AttemptID string
	Payload   *Payload
}

// Response is the raw result of a completed exchange. Classification into
// success or failure is the caller's job; OK reports the usual rule.
type Response struct {
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport submits a payload and returns the response. Implementations must
// honour ctx cancellation.
type Transport interface {
	Submit(ctx context.Context, req Request) (Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req Request) (Response, error)

// Submit calls f.
func (f Func) Submit(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// ConnectivityError reports that no response was received: the endpoint was
// unreachable, the exchange timed out or it was canceled.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transport: %s unreachable", e.URL)
	}
	return fmt.Sprintf("transport: %s unreachable: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether err carries a ConnectivityError.
func IsConnectivity(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}
