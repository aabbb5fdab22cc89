package netx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Messages surfaced to users when the server did not supply one.
const (
	GenericErrorMessage   = "An error occurred"
	SessionExpiredMessage = "Your session has expired. Please login again."
)

// ErrorKind classifies a failed Outcome.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindTransport: no response was received; Status is 0.
	KindTransport
	// KindSessionExpired: an authenticated request came back 401.
	KindSessionExpired
	// KindRejected: the server answered with a non-2xx status.
	KindRejected
	// KindMalformed: the server declared JSON but sent something else.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindSessionExpired:
		return "session_expired"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrTransport      = errors.New("transport failure")
	ErrSessionExpired = errors.New("session expired")
	ErrRejected       = errors.New("request rejected")
	ErrMalformed      = errors.New("malformed response")
	ErrNoData         = errors.New("response carries no JSON data")
)

// Outcome is the result of one request. Exactly one of Data/Raw or Error is
// meaningful, depending on OK.
type Outcome struct {
	// Data is the JSON body of a successful response.
	Data json.RawMessage
	// Raw is the body of a successful non-JSON response.
	Raw []byte
	// Error is the server-supplied or derived failure message.
	Error  string
	Status int
	OK     bool
	Kind   ErrorKind
}

// Decode unmarshals Data into v.
func (o Outcome) Decode(v any) error {
	if len(o.Data) == 0 {
		return ErrNoData
	}
	return json.Unmarshal(o.Data, v)
}

// Err returns nil for successful outcomes and a *RequestError otherwise.
func (o Outcome) Err() error {
	if o.OK {
		return nil
	}
	return &RequestError{Kind: o.Kind, Status: o.Status, Message: o.Error}
}

func transportFailure(msg string) Outcome {
	return Outcome{Error: msg, Status: 0, OK: false, Kind: KindTransport}
}

// RequestError is the error form of a failed Outcome.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Is lets callers match the kind with errors.Is(err, netx.ErrSessionExpired).
func (e *RequestError) Is(target error) bool {
	switch e.Kind {
	case KindTransport:
		return target == ErrTransport
	case KindSessionExpired:
		return target == ErrSessionExpired
	case KindRejected:
		return target == ErrRejected
	case KindMalformed:
		return target == ErrMalformed
	}
	return false
}
