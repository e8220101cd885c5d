// Package geo handles the user's reported position and the supplier map.
// Positions come from the client's geolocation API; the server never looks
// up a device position itself.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout matches the browser geolocation timeout
const DefaultTimeout = 10 * time.Second

// Error codes reported by browser geolocation
const (
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodePositionUnavailable = "POSITION_UNAVAILABLE"
	CodeTimeout             = "TIMEOUT"
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("geolocation timed out")
	ErrUnsupported         = errors.New("geolocation not supported")
	ErrInvalidPosition     = errors.New("invalid coordinates")
)

// Position is a WGS84 coordinate pair
type Position struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy,omitempty"` // meters
	Address   string    `json:"address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks that the coordinates are in range
func (p Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: %f,%f", ErrInvalidPosition, p.Latitude, p.Longitude)
	}
	return nil
}

// Provider yields the current position
type Provider interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Locate asks p for a position, giving up after timeout. A nil provider
// means geolocation is unsupported.
func Locate(ctx context.Context, p Provider, timeout time.Duration) (Position, error) {
	if p == nil {
		return Position{}, ErrUnsupported
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type located struct {
		pos Position
		err error
	}
	done := make(chan located, 1)
	go func() {
		pos, err := p.CurrentPosition(ctx)
		done <- located{pos, err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, ctx.Err()
	case res := <-done:
		if errors.Is(res.err, context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		if res.err != nil {
			return Position{}, res.err
		}
		if err := res.pos.Validate(); err != nil {
			return Position{}, err
		}
		return res.pos, nil
	}
}

// ErrorFromCode maps a browser geolocation error code to an error
func ErrorFromCode(code string) error {
	switch code {
	case CodePermissionDenied:
		return ErrPermissionDenied
	case CodePositionUnavailable:
		return ErrPositionUnavailable
	case CodeTimeout:
		return ErrTimeout
	case "":
		return nil
	default:
		return fmt.Errorf("geolocation error %q", code)
	}
}

// Code returns the browser error code for err, or "" if it has none
func Code(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return CodePermissionDenied
	case errors.Is(err, ErrPositionUnavailable), errors.Is(err, ErrInvalidPosition):
		return CodePositionUnavailable
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	default:
		return ""
	}
}

// UserMessage returns the message shown to the user for a geolocation error
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupported):
		return "Geolocalização não suportada pelo navegador"
	case errors.Is(err, ErrPermissionDenied):
		return "Acesso à localização negado pelo usuário"
	case errors.Is(err, ErrPositionUnavailable), errors.Is(err, ErrInvalidPosition):
		return "Localização indisponível"
	case errors.Is(err, ErrTimeout):
		return "Tempo limite para obter localização"
	default:
		return "Erro ao obter localização"
	}
}

// ReportedProvider replays what the client's geolocation API returned:
// either a position or an error code
type ReportedProvider struct {
	Position  *Position
	ErrorCode string
	Now       func() time.Time
}

// CurrentPosition returns the reported position or the reported error
func (r ReportedProvider) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ErrorFromCode(r.ErrorCode); err != nil {
		return Position{}, err
	}
	if r.Position == nil {
		return Position{}, ErrPositionUnavailable
	}
	pos := *r.Position
	if pos.Timestamp.IsZero() {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		pos.Timestamp = now()
	}
	return pos, nil
}
