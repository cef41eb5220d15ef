package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// Shape identifies which known reply layout an auth endpoint used.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeNested is {"user": {...}, "tokens": {"access": "...", "refresh": "..."}}.
	ShapeNested
	// ShapeFlat is {"access": "...", "refresh": "..."}, optionally with "user".
	ShapeFlat
	// ShapeUserOnly is a bare user record without tokens.
	ShapeUserOnly
)

func (s Shape) String() string {
	switch s {
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	case ShapeUserOnly:
		return "user-only"
	default:
		return "unknown"
	}
}

// ErrUnknownAuthResponse is returned for a reply matching no known shape.
var ErrUnknownAuthResponse = errors.New("unrecognized auth response")

// AuthResponse is a login or register reply normalized to one form.
type AuthResponse struct {
	Shape   Shape
	Access  string
	Refresh string
	User    *quote.User
}

// HasTokens reports whether the reply carried an access token.
func (r AuthResponse) HasTokens() bool { return r.Access != "" }

// ParseAuthResponse classifies raw and extracts tokens and user.
func ParseAuthResponse(raw []byte) (AuthResponse, error) {
	var probe struct {
		Tokens *struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
		Access   string          `json:"access"`
		Refresh  string          `json:"refresh"`
		User     *quote.User     `json:"user"`
		ID       json.RawMessage `json:"id"`
		Username string          `json:"username"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return AuthResponse{}, fmt.Errorf("%w: %v", ErrUnknownAuthResponse, err)
	}

	switch {
	case probe.Tokens != nil && probe.Tokens.Access != "":
		return AuthResponse{Shape: ShapeNested, Access: probe.Tokens.Access, Refresh: probe.Tokens.Refresh, User: probe.User}, nil
	case probe.Access != "":
		return AuthResponse{Shape: ShapeFlat, Access: probe.Access, Refresh: probe.Refresh, User: probe.User}, nil
	case len(probe.ID) > 0 || probe.Username != "":
		var u quote.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return AuthResponse{}, fmt.Errorf("%w: %v", ErrUnknownAuthResponse, err)
		}
		return AuthResponse{Shape: ShapeUserOnly, User: &u}, nil
	case probe.User != nil:
		return AuthResponse{Shape: ShapeUserOnly, User: probe.User}, nil
	}
	return AuthResponse{}, ErrUnknownAuthResponse
}
