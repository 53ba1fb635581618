package domain

import (
	"testing"
	"time"
)

func TestRatingError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
	}{
		{
			name:      "Basic error",
			code:      ErrCodeInvalidInput,
			message:   "Policy payload is not a JSON object",
			details:   "The request body could not be decoded",
			requestID: "req-123",
		},
		{
			name:      "Lookup error",
			code:      ErrCodeAnalysisNotFound,
			message:   "No analysis with the given ID",
			details:   "The analysis may have been evicted from the cache",
			requestID: "req-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRatingError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}

			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}

			if err.Details != tt.details {
				t.Errorf("Expected details %s, got %s", tt.details, err.Details)
			}

			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}

			// Check that timestamp is recent (within last minute)
			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			// Test Error() method
			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		message string
		value   interface{}
	}{
		{
			name:    "String validation error",
			field:   "exclusions",
			message: "Must be an array of category names",
			value:   "Travel",
		},
		{
			name:    "Integer validation error",
			field:   "session_cap",
			message: "Must be non-negative",
			value:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)

			if err.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, err.Field)
			}

			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}

			if err.Value != tt.value {
				t.Errorf("Expected value %v, got %v", tt.value, err.Value)
			}

			// Test Error() method
			expectedError := "validation error for field '" + tt.field + "': " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestErrorConstants(t *testing.T) {
	constants := map[string]string{
		"ErrCodeInvalidInput":     ErrCodeInvalidInput,
		"ErrCodeAnalysisNotFound": ErrCodeAnalysisNotFound,
		"ErrCodeRectification":    ErrCodeRectification,
		"ErrCodeRateLimit":        ErrCodeRateLimit,
		"ErrCodeInternalServer":   ErrCodeInternalServer,
		"ErrCodeValidation":       ErrCodeValidation,
	}

	expectedValues := map[string]string{
		"ErrCodeInvalidInput":     "INVALID_INPUT",
		"ErrCodeAnalysisNotFound": "ANALYSIS_NOT_FOUND",
		"ErrCodeRectification":    "RECTIFICATION_ERROR",
		"ErrCodeRateLimit":        "RATE_LIMIT_EXCEEDED",
		"ErrCodeInternalServer":   "INTERNAL_SERVER_ERROR",
		"ErrCodeValidation":       "VALIDATION_ERROR",
	}

	for name, actual := range constants {
		expected := expectedValues[name]
		if actual != expected {
			t.Errorf("Expected %s to be %s, got %s", name, expected, actual)
		}
	}
}
