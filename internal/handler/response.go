package handler

import (
	"encoding/json"
	"net/http"
)

// Every response is a flat envelope: {"success": true, "<key>": payload}
// on the happy path, {"success": false, "error": "..."} otherwise. The
// payload key varies per endpoint ("user", "group", "response"), matching
// what clients already parse.

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteSuccess writes a success envelope carrying one payload under key.
func WriteSuccess(w http.ResponseWriter, status int, key string, payload interface{}) {
	WriteJSON(w, status, map[string]interface{}{
		"success": true,
		key:       payload,
	})
}

// WriteSuccessExtra writes a success envelope with additional fields
// beyond the payload.
func WriteSuccessExtra(w http.ResponseWriter, status int, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	WriteJSON(w, status, body)
}

// WriteError writes a failure envelope
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// DecodeJSON decodes a JSON request body into the given struct. Unknown
// fields are tolerated; clients send bodies with extra keys.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
