package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Recorder stamps events and hands them to a Storage.
type Recorder struct {
	storage   Storage
	now       func() time.Time
	requestID func(context.Context) string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRequestIDExtractor fills Event.RequestID from the call context.
func WithRequestIDExtractor(fn func(context.Context) string) Option {
	return func(r *Recorder) {
		r.requestID = fn
	}
}

// NewRecorder creates a Recorder. Panics if storage is nil.
func NewRecorder(storage Storage, opts ...Option) *Recorder {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	r := &Recorder{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record validates e, assigns its ID and timestamp when missing and stores it.
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	if e.RequestID == "" && r.requestID != nil {
		e.RequestID = r.requestID(ctx)
	}
	if err := r.storage.Store(ctx, e); err != nil {
		return errors.Join(ErrFailedToStore, err)
	}
	return nil
}
