package consciousness

import (
	"context"
	"time"

	"github.com/kairoslabs/kairos-backend/internal/platform/logger"
)

// Reader turns raw source readings into normalized snapshots. A Reader
// never fails: when the source cannot be read the caller gets the
// neutral fallback snapshot, tagged with fallback provenance.
type Reader struct {
	source Source
	scale  Scale
	log    *logger.Logger
	now    func() time.Time

	onFallback func()
}

type ReaderOption func(*Reader)

// WithClock overrides the reader's time source.
func WithClock(now func() time.Time) ReaderOption {
	return func(r *Reader) { r.now = now }
}

// WithFallbackHook registers a callback invoked whenever a read falls
// back to the neutral snapshot.
func WithFallbackHook(fn func()) ReaderOption {
	return func(r *Reader) { r.onFallback = fn }
}

func NewReader(source Source, scale Scale, log *logger.Logger, opts ...ReaderOption) *Reader {
	r := &Reader{
		source: source,
		scale:  scale,
		log:    log.With("component", "state_reader"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the current state. Source failures are logged and
// absorbed; the zero-value Reader contract is that callers always get
// a usable snapshot.
func (r *Reader) Snapshot(ctx context.Context) Snapshot {
	if r.source != nil {
		raw, err := r.source.Latest(ctx)
		if err == nil {
			return raw.Normalize(r.scale)
		}
		r.log.Warn("state source unavailable, serving fallback", "error", err)
	}
	if r.onFallback != nil {
		r.onFallback()
	}
	return FallbackSnapshot(r.now())
}
