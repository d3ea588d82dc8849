package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the {code, message} error shape used by /api/auth.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
