package controller

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/messages"
	"github.com/goliatone/go-formflow/pkg/schedule"
)

// DefaultDismissDelay is how long a banner stays visible.
const DefaultDismissDelay = 5 * time.Second

const (
	defaultColumns = 60
	defaultMinRows = 2
)

// Option configures a Controller.
type Option func(*config)

type config struct {
	catalog      messages.Catalog
	scheduler    schedule.Scheduler
	logger       *slog.Logger
	observer     Observer
	dismissDelay time.Duration
	columns      int
	minRows      int
	now          func() time.Time
	newID        func() string
}

func defaultConfig() config {
	return config{
		scheduler:    schedule.Real{},
		dismissDelay: DefaultDismissDelay,
		columns:      defaultColumns,
		minRows:      defaultMinRows,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithCatalog selects the messages used for validation and transport
// feedback. Defaults to the tree's locale in the built-in bundle.
func WithCatalog(catalog messages.Catalog) Option {
	return func(c *config) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithScheduler replaces the timer source for dismiss and deferred resize
// tasks.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver receives validation and submission events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithDismissDelay overrides the banner auto-dismiss window.
func WithDismissDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.dismissDelay = d
		}
	}
}

// WithAutoResize sets the column width used to estimate textarea rows and
// the minimum row count.
func WithAutoResize(columns, minRows int) Option {
	return func(c *config) {
		if columns > 0 {
			c.columns = columns
		}
		if minRows > 0 {
			c.minRows = minRows
		}
	}
}

// WithClock overrides the time source used for latency reporting.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAttemptIDs overrides the submission attempt id generator.
func WithAttemptIDs(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}
