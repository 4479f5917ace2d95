package health

import (
	"encoding/json"
	"net/http"
)

const (
	// Endpoint is the endpoint load balancers check
	Endpoint = "/health"
)

// Status on an endpoint
type Status int

// Status of an endpoint can be None, OK, or Unreachable.
const (
	StatusNone Status = iota
	StatusOK
	StatusUnreachable
)

// String converts Status to printable string.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "N/A"
	case StatusOK:
		return "OK"
	case StatusUnreachable:
		return "Unreachable"
	}
	return ""
}

// Response for a status check
type Response struct {
	StatusCode Status `json:"status_code"`
	Message    string `json:"message"`
}

// Check reports a human readable summary of the service, or an error if it cannot serve.
type Check func() (string, error)

// NewHandler returns a handler answering OK while check succeeds, and 503 otherwise.
func NewHandler(check Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := Response{StatusCode: StatusOK}
		code := http.StatusOK

		msg, err := check()
		if err != nil {
			status.StatusCode = StatusUnreachable
			msg = err.Error()
			code = http.StatusServiceUnavailable
		}
		status.Message = msg

		buf, err := json.Marshal(&status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write(buf)
	}
}
