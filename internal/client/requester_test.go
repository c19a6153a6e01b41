package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/cookedfr/cookedfr/internal/api"
	"github.com/cookedfr/cookedfr/internal/config"
	"github.com/cookedfr/cookedfr/internal/upstream/mocks"
)

type fakeTeller struct {
	calls   atomic.Int32
	fortune string
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeTeller) Tell(ctx context.Context, name string) (string, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.fortune, f.err
}

func newRequester(teller Teller) *Requester {
	return NewRequester(teller, zerolog.New(io.Discard))
}

func TestSubmit_EmptyNameMakesNoCall(t *testing.T) {
	teller := &fakeTeller{fortune: "unused"}
	r := newRequester(teller)

	assert.False(t, r.CanSubmit())
	_, err := r.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitBlocked)
	assert.Equal(t, int32(0), teller.calls.Load())
	assert.Equal(t, StateIdle, r.State())
}

func TestSubmit_Success(t *testing.T) {
	teller := &fakeTeller{fortune: "Alex, 2025 brings big W's ✨"}
	r := newRequester(teller)
	r.SetName("Alex")

	fortune, err := r.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Alex, 2025 brings big W's ✨", fortune)
	assert.Equal(t, StateSucceeded, r.State())
	assert.False(t, r.Loading())
	assert.True(t, r.CanSubmit())
}

func TestSubmit_FailureShowsFallback(t *testing.T) {
	teller := &fakeTeller{err: errors.New("boom")}
	r := newRequester(teller)
	r.SetName("Alex")

	fortune, err := r.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, FallbackMessage, fortune)
	assert.Equal(t, FallbackMessage, r.Fortune())
	assert.Equal(t, StateFailed, r.State())
	assert.False(t, r.Loading())
}

func TestSubmit_InFlightBlocksSecondSubmit(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)

	teller := &fakeTeller{fortune: "ok", release: make(chan struct{}), started: make(chan struct{}, 1)}
	r := newRequester(teller)
	r.SetName("Alex")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Submit(context.Background())
	}()

	<-teller.started
	assert.True(t, r.Loading())
	assert.False(t, r.CanSubmit())

	_, err := r.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitBlocked)

	close(teller.release)
	wg.Wait()

	assert.Equal(t, int32(1), teller.calls.Load())
	assert.Equal(t, "ok", r.Fortune())
	assert.True(t, r.CanSubmit())
}

func TestBeginFinish_StaleTicketDropped(t *testing.T) {
	r := newRequester(&fakeTeller{})
	r.SetName("Alex")

	stale, ok := r.Begin()
	require.True(t, ok)
	assert.Equal(t, "Alex", stale.Name)

	r.Reset()
	assert.Equal(t, StateIdle, r.State())
	assert.False(t, r.Loading())

	assert.False(t, r.Finish(stale, "late fortune", nil))
	assert.Empty(t, r.Fortune())
	assert.Equal(t, StateIdle, r.State())

	r.SetName("Sam")
	fresh, ok := r.Begin()
	require.True(t, ok)
	assert.True(t, r.Finish(fresh, "fresh fortune", nil))
	assert.Equal(t, "fresh fortune", r.Fortune())
}

func TestBegin_KeepsPreviousFortuneWhileLoading(t *testing.T) {
	r := newRequester(&fakeTeller{})
	r.SetName("Alex")

	first, _ := r.Begin()
	r.Finish(first, "first", nil)

	_, ok := r.Begin()
	require.True(t, ok)
	assert.Equal(t, "first", r.Fortune())
	assert.Equal(t, StateLoading, r.State())
}

func TestRequester_AgainstRelay(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
		wantErr  bool
	}{
		{name: "Alex", status: http.StatusOK, body: `{"fortune":"Alex, 2025 brings big W's ✨"}`, expected: "Alex, 2025 brings big W's ✨"},
		{name: "Sam", status: http.StatusInternalServerError, body: `{"error":"An error occurred while fetching your fortune. Please try again later."}`, expected: FallbackMessage, wantErr: true},
		{name: "Bo", status: http.StatusBadRequest, body: `{"error":"Invalid name provided"}`, expected: FallbackMessage, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r := newRequester(New(server.URL))
			r.SetName(tt.name)

			fortune, err := r.Submit(context.Background())

			assert.Equal(t, tt.expected, fortune)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.False(t, r.Loading())
		})
	}
}

func TestRequester_ThroughRelayRouter(t *testing.T) {
	tests := []struct {
		name     string
		result   string
		err      error
		calls    int
		expected string
		state    State
	}{
		{name: "Alex", result: "Alex, 2025 brings big W's ✨", calls: 1, expected: "Alex, 2025 brings big W's ✨", state: StateSucceeded},
		{name: "Sam", err: errors.New("dial tcp: connection reset by peer"), calls: 1, expected: FallbackMessage, state: StateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gen := mocks.NewMockGenerator(ctrl)
			gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(tt.result, tt.err).Times(tt.calls)

			cfg := config.Default()
			cfg.Upstream.APIKey = "sk-test"
			relay := httptest.NewServer(api.NewRouter(cfg, gen, api.NewMetrics(), zerolog.New(io.Discard)))
			defer relay.Close()

			r := newRequester(New(relay.URL))
			r.SetName(tt.name)

			fortune, err := r.Submit(context.Background())

			assert.Equal(t, tt.expected, fortune)
			assert.Equal(t, tt.state, r.State())
			assert.False(t, r.Loading())
			if tt.err != nil {
				var relayErr *RelayError
				require.True(t, errors.As(err, &relayErr))
				assert.Equal(t, http.StatusInternalServerError, relayErr.StatusCode)
			}
		})
	}
}

func TestRequester_EmptyNameNeverReachesRelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(0)

	cfg := config.Default()
	cfg.Upstream.APIKey = "sk-test"
	relay := httptest.NewServer(api.NewRouter(cfg, gen, api.NewMetrics(), zerolog.New(io.Discard)))
	defer relay.Close()

	r := newRequester(New(relay.URL))
	_, err := r.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitBlocked)
	assert.Equal(t, StateIdle, r.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
}
