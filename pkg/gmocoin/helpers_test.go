package gmocoin

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
	testMillis = int64(1700000000000)
)

// recorder is an http.RoundTripper that keeps every request and answers
// with a canned body.
type recorder struct {
	mu     sync.Mutex
	reqs   []*http.Request
	bodies [][]byte
	status int
	body   string
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var payload []byte
	if req.Body != nil {
		payload, _ = io.ReadAll(req.Body)
	}

	r.mu.Lock()
	r.reqs = append(r.reqs, req)
	r.bodies = append(r.bodies, payload)
	status, body := r.status, r.body
	r.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" {
		body = `{"status":0,"data":{},"responsetime":"2023-11-14T22:13:20.000Z"}`
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func (r *recorder) last() (*http.Request, []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.reqs)
	if n == 0 {
		return nil, nil
	}
	return r.reqs[n-1], r.bodies[n-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func fixedClock() time.Time {
	return time.UnixMilli(testMillis)
}

func newRecordingClient(key, secret string) (*Client, *recorder) {
	rec := &recorder{}
	c := New(key, secret, nil,
		WithHTTPClient(&http.Client{Transport: rec}),
		WithClock(fixedClock),
	)
	return c, rec
}
