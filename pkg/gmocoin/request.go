package gmocoin

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	HeaderAPIKey       = "API-KEY"
	HeaderAPITimestamp = "API-TIMESTAMP"
	HeaderAPISign      = "API-SIGN"
)

// Request describes one API call before it hits the wire. Body holds the
// exact bytes that are both signed and sent.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    []byte
	Private bool
}

func publicGet(path string, query url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Query: query}
}

func privateGet(path string, query url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Query: query, Private: true}
}

func privateWithBody(method, path string, body any) (Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Request{}, fmt.Errorf("Не удалось подготовить тело запроса: %w", err)
	}
	return Request{Method: method, Path: path, Body: payload, Private: true}, nil
}

// URL returns the full request URL for the given base.
func (r Request) URL(base string) string {
	u := base + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

func (c *Client) baseURL(r Request) string {
	if r.Private {
		return c.privateURL
	}
	return c.publicURL
}

func (c *Client) doRequest(ctx context.Context, r Request) (*Response, error) {
	if r.Private && !c.HasCredentials() {
		return nil, &AuthenticationError{Path: r.Path}
	}

	urlStr := r.URL(c.baseURL(r))

	var bodyReader io.Reader
	if r.Body != nil {
		bodyReader = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, urlStr, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("Не удалось создать запрос: %w", err)
	}

	if r.Private {
		timestamp := c.timestamp()
		req.Header.Set(HeaderAPIKey, c.apiKey)
		req.Header.Set(HeaderAPITimestamp, timestamp)
		req.Header.Set(HeaderAPISign, sign(c.secret, signaturePayload(timestamp, r.Method, r.Path, r.Body)))
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.logEntry().WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     r.Method,
		"path":       r.Path,
		"private":    r.Private,
	})
	entry.Debug("Отправка запроса.")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Warn("Ошибка запроса.")
		return nil, &TransportError{Method: r.Method, URL: urlStr, Err: err}
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		entry.WithError(err).Warn("Не удалось прочитать ответ.")
		return nil, &TransportError{Method: r.Method, URL: urlStr, Err: err}
	}

	out, err := decodeResponse(resp.StatusCode, data)
	if err != nil {
		entry.WithError(err).WithField("http_status", resp.StatusCode).Warn("Не удалось разобрать ответ.")
		return nil, err
	}

	entry.WithFields(logrus.Fields{
		"http_status": resp.StatusCode,
		"status":      out.Status,
	}).Debug("Ответ получен.")

	return out, nil
}

// decodeResponse fails only for bodies that are not JSON at all. Valid JSON
// that does not fit the envelope comes back with StatusUnrecognized.
func decodeResponse(statusCode int, data []byte) (*Response, error) {
	if !json.Valid(data) {
		return nil, &ParseError{StatusCode: statusCode, Body: data, Err: errors.New("некорректный JSON")}
	}

	out := &Response{StatusCode: statusCode, Body: data}
	if err := json.Unmarshal(data, out); err != nil {
		return &Response{Status: StatusUnrecognized, StatusCode: statusCode, Body: data}, nil
	}
	return out, nil
}

func (c *Client) logEntry() *logrus.Entry {
	return c.log.WithComponent("gmocoin_rest")
}

// timestamp returns the current Unix time in ms, bumped by one when the
// clock has not advanced since the previous call.
func (c *Client) timestamp() string {
	now := c.now().UnixMilli()
	for {
		last := c.lastStamp.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if c.lastStamp.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}

func signaturePayload(timestamp, method, path string, body []byte) string {
	return timestamp + method + path + string(body)
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
