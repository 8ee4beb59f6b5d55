// Package gmocoin is a client for the GMO Coin REST API.
//
// Public endpoints work without credentials. Private endpoints sign every
// request with HMAC-SHA256 over timestamp, method, path and body, and fail
// with ErrAuthentication when the client was built without a key pair.
package gmocoin

import (
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"gmoclient/pkg/logger"
)

const (
	DefaultPublicURL      = "https://api.coin.z.com/public"
	DefaultPrivateURL     = "https://api.coin.z.com/private"
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 20 * time.Second
)

type Client struct {
	publicURL      string
	privateURL     string
	apiKey         string
	secret         string
	connectTimeout time.Duration
	readTimeout    time.Duration

	httpClient *http.Client
	log        *logger.Logger
	now        func() time.Time

	// last API-TIMESTAMP issued, keeps private timestamps strictly increasing
	lastStamp atomic.Int64
}

type Option func(*Client)

func WithPublicURL(u string) Option {
	return func(c *Client) { c.publicURL = u }
}

func WithPrivateURL(u string) Option {
	return func(c *Client) { c.privateURL = u }
}

// WithHTTPClient replaces the transport entirely; WithTimeouts is ignored then.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) {
		if connect > 0 {
			c.connectTimeout = connect
		}
		if read > 0 {
			c.readTimeout = read
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New builds a client. apiKey and secret may be empty for public-only use.
func New(apiKey, secret string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		publicURL:      DefaultPublicURL,
		privateURL:     DefaultPrivateURL,
		apiKey:         apiKey,
		secret:         secret,
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
		log:            log,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = newHTTPClient(c.connectTimeout, c.readTimeout)
	}
	if c.log == nil {
		c.log = logger.Discard()
	}

	return c
}

// HasCredentials reports whether private endpoints can be called.
func (c *Client) HasCredentials() bool {
	return c.apiKey != "" && c.secret != ""
}

func newHTTPClient(connect, read time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = connect
	transport.ResponseHeaderTimeout = read

	return &http.Client{
		Transport: transport,
		Timeout:   connect + read,
	}
}
