package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ncaablines/internal/model"
)

const testUA = "Mozilla/5.0 (test)"

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != testUA {
			http.Error(w, "bots not welcome", http.StatusForbidden)
			return
		}
		w.Write([]byte("<table></table>"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.Write([]byte("late"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func requireFetchKind(t *testing.T, err error, kind model.FetchErrorKind) *model.FetchError {
	t.Helper()
	var fe *model.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, kind, fe.Kind)
	return fe
}

func TestClient(t *testing.T) {
	srv := newUpstream(t)
	c := NewClient(Options{Timeout: 500 * time.Millisecond, UserAgent: testUA})

	body, err := c.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", string(body))

	_, err = c.Fetch(context.Background(), srv.URL+"/missing")
	fe := requireFetchKind(t, err, model.FetchHTTPStatus)
	assert.Equal(t, http.StatusNotFound, fe.Status)

	_, err = c.Fetch(context.Background(), srv.URL+"/slow")
	requireFetchKind(t, err, model.FetchTimeout)

	_, err = c.Fetch(context.Background(), "http://127.0.0.1:1/closed")
	requireFetchKind(t, err, model.FetchNetwork)
}

func TestClient_SendsUserAgent(t *testing.T) {
	srv := newUpstream(t)
	c := NewClient(Options{UserAgent: "Go-http-client/1.1"})

	_, err := c.Fetch(context.Background(), srv.URL+"/ok")
	fe := requireFetchKind(t, err, model.FetchHTTPStatus)
	assert.Equal(t, http.StatusForbidden, fe.Status)
}

func TestScraper(t *testing.T) {
	srv := newUpstream(t)
	s := NewScraper(Options{Timeout: time.Second, UserAgent: testUA})

	body, err := s.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", string(body))

	// Revisiting the same URL is allowed.
	_, err = s.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)

	_, err = s.Fetch(context.Background(), srv.URL+"/missing")
	fe := requireFetchKind(t, err, model.FetchHTTPStatus)
	assert.Equal(t, http.StatusNotFound, fe.Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Fetch(ctx, srv.URL+"/ok")
	assert.Error(t, err)
}

type recordingFetcher struct {
	calls int
}

func (r *recordingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	r.calls++
	return []byte(url), nil
}

func TestPolite_DelaysWithinRange(t *testing.T) {
	next := &recordingFetcher{}
	p := NewPolite(next, time.Second, 3*time.Second)

	var slept []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	for _, j := range []int64{0, int64(time.Second), int64(2 * time.Second)} {
		j := j
		p.jitter = func(n int64) int64 {
			assert.Equal(t, int64(2*time.Second)+1, n)
			return j
		}
		_, err := p.Fetch(context.Background(), "http://example.test")
		require.NoError(t, err)
	}

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, slept)
	assert.Equal(t, 3, next.calls)
}

func TestPolite_RealJitterStaysInRange(t *testing.T) {
	p := NewPolite(&recordingFetcher{}, time.Second, 3*time.Second)
	for i := 0; i < 200; i++ {
		d := p.delay()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}
}

func TestPolite_CancelledWait(t *testing.T) {
	next := &recordingFetcher{}
	p := NewPolite(next, time.Hour, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Fetch(ctx, "http://example.test")
	requireFetchKind(t, err, model.FetchTimeout)
	assert.Equal(t, 0, next.calls)
}

func TestPolite_ZeroRangeSkipsWait(t *testing.T) {
	next := &recordingFetcher{}
	p := NewPolite(next, 0, 0)
	p.sleep = func(context.Context, time.Duration) error {
		t.Fatal("sleep should not be called")
		return nil
	}
	_, err := p.Fetch(context.Background(), "http://example.test")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
}
