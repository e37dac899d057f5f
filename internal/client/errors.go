package client

import (
	"errors"
	"fmt"

	"github.com/pageza/opskrifter/internal/catalog"
)

var (
	// ErrNetwork wraps transport failures (connection refused, timeouts...).
	ErrNetwork = errors.New("netværksfejl")
	// ErrDecode wraps responses whose JSON does not have the expected shape.
	ErrDecode = errors.New("uventet svar fra serveren")
)

// APIError is a non-2xx answer from the catalog API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// GenericMessage is shown when an error response carries no message.
func GenericMessage(status int) string {
	return fmt.Sprintf("Server-fejl (status %d)", status)
}

// UserMessage turns any error from this package into the text a user sees.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	switch {
	case errors.Is(err, ErrNetwork):
		return "Kunne ikke kontakte serveren"
	case errors.Is(err, ErrDecode):
		return ErrDecode.Error()
	}
	return err.Error()
}
