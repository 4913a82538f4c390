package shared

import (
	"net/http"
	"strconv"
)

// QueryInt reads an integer query parameter, returning fallback when
// absent or unparsable.
func QueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
