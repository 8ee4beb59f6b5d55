package gmocoin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthentication = errors.New("gmocoin: для приватного API нужны API-ключ и секрет")
	ErrInvalidParams  = errors.New("gmocoin: некорректные параметры запроса")
)

// AuthenticationError is returned before any network activity when a private
// endpoint is called on a client without credentials.
type AuthenticationError struct {
	Path string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s (path=%s)", ErrAuthentication.Error(), e.Path)
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// TransportError covers connect, DNS, timeout and body read failures.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Ошибка запроса %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError means the response body was not valid JSON.
type ParseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Не удалось разобрать ответ (status=%d): %v", e.StatusCode, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidParams.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParams
}

// APIError is an exchange-level failure (status != 0). The client never
// returns it on its own; see Response.Err.
type APIError struct {
	Status   int
	Messages []Message
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, m.Code+" "+m.Text)
	}
	return fmt.Sprintf("Ошибка gmocoin: %s (status=%d)", strings.Join(parts, "; "), e.Status)
}

// Code returns the first message code, e.g. "ERR-5201".
func (e *APIError) Code() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0].Code
}
