package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// FallbackMessage replaces the fortune whenever a request fails.
const FallbackMessage = "Oops! Something went wrong. Please try again."

// ErrSubmitBlocked is returned when the name is empty or a request is already in flight.
var ErrSubmitBlocked = errors.New("submit blocked: empty name or request in flight")

// Teller produces a fortune for a name. *Client satisfies it.
type Teller interface {
	Tell(ctx context.Context, name string) (string, error)
}

// State is the lifecycle of the most recent submit.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one submit. Finish ignores tickets from an older generation.
type Ticket struct {
	Name       string
	generation uint64
}

// Requester guards a single in-flight fortune request and holds its outcome.
type Requester struct {
	mu         sync.Mutex
	teller     Teller
	logger     zerolog.Logger
	name       string
	fortune    string
	state      State
	generation uint64
	loading    bool
}

// NewRequester creates a Requester backed by teller.
func NewRequester(teller Teller, logger zerolog.Logger) *Requester {
	return &Requester{
		teller: teller,
		logger: logger.With().Str("component", "requester").Logger(),
	}
}

// SetName updates the name used by the next submit.
func (r *Requester) SetName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

// Name returns the current name.
func (r *Requester) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// CanSubmit reports whether a submit would be accepted.
func (r *Requester) CanSubmit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canSubmitLocked()
}

func (r *Requester) canSubmitLocked() bool {
	return r.name != "" && !r.loading
}

// Begin marks a request as in flight and returns its ticket.
// It returns false without changing state when a submit is not allowed.
func (r *Requester) Begin() (Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.canSubmitLocked() {
		return Ticket{}, false
	}
	r.loading = true
	r.state = StateLoading
	return Ticket{Name: r.name, generation: r.generation}, true
}

// Finish records the outcome of the request identified by t.
// A failed request stores FallbackMessage and logs err.
// It returns false when t is stale, leaving state untouched.
func (r *Requester) Finish(t Ticket, fortune string, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.generation != r.generation {
		r.logger.Debug().Str("name", t.Name).Msg("Dropping stale fortune response")
		return false
	}

	r.loading = false
	if err != nil {
		r.logger.Error().Err(err).Str("name", t.Name).Msg("Error fetching fortune")
		r.fortune = FallbackMessage
		r.state = StateFailed
		return true
	}

	r.fortune = fortune
	r.state = StateSucceeded
	return true
}

// Submit runs one request synchronously. It returns the fortune now on
// display and the underlying error, or ErrSubmitBlocked without any call.
func (r *Requester) Submit(ctx context.Context) (string, error) {
	t, ok := r.Begin()
	if !ok {
		return "", ErrSubmitBlocked
	}

	fortune, err := r.teller.Tell(ctx, t.Name)
	r.Finish(t, fortune, err)
	return r.Fortune(), err
}

// Reset clears the outcome and invalidates any in-flight ticket.
func (r *Requester) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.loading = false
	r.fortune = ""
	r.name = ""
	r.state = StateIdle
}

// Fortune returns the stored fortune, the fallback message, or "".
func (r *Requester) Fortune() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fortune
}

// HasFortune reports whether auxiliary actions have text to work with.
func (r *Requester) HasFortune() bool {
	return r.Fortune() != ""
}

// State returns the current lifecycle state.
func (r *Requester) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Loading reports whether a request is in flight.
func (r *Requester) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}
