package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/models"
)

func TestJSONWritesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"unit_code": "APT-101"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "APT-101", body["unit_code"])
}

func TestJSONNilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", models.NewValidationError("phone", "phone is required"), http.StatusBadRequest, "validation_error"},
		{"business rule", models.NewBusinessRuleViolation(models.RuleAlreadyInState, "already active"), http.StatusConflict, "business_rule_violation"},
		{"not found", models.NewEntityNotFound("apartment", "APT-404"), http.StatusNotFound, "entity_not_found"},
		{"aggregation", models.NewAggregationError("apartment APT-101", errors.New("boom")), http.StatusInternalServerError, "aggregation_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var body struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
				Rule  string `json:"rule"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorCarriesRule(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, models.NewBusinessRuleViolation(models.RuleTerminalPayment, "payment is VALIDATED"))

	var body struct {
		Rule string `json:"rule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.RuleTerminalPayment, body.Rule)
}

func TestErrorHidesUnclassifiedDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: connection refused on 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}
