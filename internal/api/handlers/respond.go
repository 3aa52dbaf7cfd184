package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/hackhub/hackhub/internal/api/apierr"
	"github.com/hackhub/hackhub/internal/api/dto"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData wraps the payload in the success envelope.
func writeData(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, dto.NewResponse(status, data, message))
}

// writeValidationErrors flattens field errors into the error envelope,
// sorted so responses are stable.
func writeValidationErrors(w http.ResponseWriter, errs map[string]string) {
	list := make([]string, 0, len(errs))
	for field, msg := range errs {
		list = append(list, field+": "+msg)
	}
	sort.Strings(list)
	apierr.Write(w, http.StatusBadRequest, "Validation failed", list...)
}
