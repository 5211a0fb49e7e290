package common

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape the single-page client consumes:
// {success, message} plus operation-specific keys spread at the top level.
type Envelope map[string]interface{}

// Respond sends a success envelope with optional extra payload keys
func Respond(w http.ResponseWriter, status int, message string, extra Envelope) {
	body := Envelope{
		"success": status >= 200 && status < 300,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RespondJSON sends an arbitrary JSON payload without the envelope
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error envelope
func RespondError(w http.ResponseWriter, status int, message string) {
	Respond(w, status, message, nil)
}

// ParseJSONBody parses JSON request body with size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return err
	}

	return nil
}
