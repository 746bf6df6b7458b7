package utils

import (
	"encoding/json"
	"net/http"

	"rental-backend/internal/models"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

// Error writes err as JSON with a status derived from its domain kind.
// Unclassified errors become 500s with a generic message so internals
// never leak to clients.
func Error(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	body := errorBody{Error: err.Error(), Kind: string(kind)}

	var status int
	switch kind {
	case models.KindValidation:
		status = http.StatusBadRequest
	case models.KindBusinessRule:
		status = http.StatusConflict
		if bre, ok := err.(*models.BusinessRuleViolationError); ok {
			body.Rule = bre.Rule
		}
	case models.KindNotFound:
		status = http.StatusNotFound
	case models.KindAggregation:
		status = http.StatusInternalServerError
	default:
		status = http.StatusInternalServerError
		body.Error = "internal server error"
	}

	JSON(w, status, body)
}
