package testsupport

import (
	"context"
	"net/http"
	"sync"

	"github.com/goliatone/go-formflow/pkg/transport"
)

// StubTransport records submissions and answers with a canned response or
// error. Hold, when set, blocks Submit until it is closed.
type StubTransport struct {
	mu       sync.Mutex
	requests []transport.Request

	Response transport.Response
	Err      error
	Hold     chan struct{}
}

var _ transport.Transport = (*StubTransport)(nil)

// RespondJSON returns a stub answering status with a JSON body.
func RespondJSON(status int, body string) *StubTransport {
	return &StubTransport{Response: transport.Response{
		StatusCode:  status,
		Status:      http.StatusText(status),
		ContentType: "application/json",
		Body:        []byte(body),
	}}
}

// Fail returns a stub whose submissions fail with err.
func Fail(err error) *StubTransport {
	return &StubTransport{Err: err}
}

// Submit records req and returns the configured outcome.
func (s *StubTransport) Submit(ctx context.Context, req transport.Request) (transport.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	hold := s.Hold
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return transport.Response{}, &transport.ConnectivityError{URL: req.URL, Err: ctx.Err()}
		}
	}
	if s.Err != nil {
		return transport.Response{}, s.Err
	}
	return s.Response, nil
}

// Calls reports how many submissions were made.
func (s *StubTransport) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request.
func (s *StubTransport) Last() (transport.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return transport.Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}
