package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
)

func TestRender_JSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data := map[string]any{"key1": 1, "key2": "222"}
		JSON(w, http.StatusCreated, data, "Created")
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{
			"data": {"key1":1,"key2":"222"},
			"status": 201,
			"message": "Created",
			"success": true
		}`,
		string(body),
	)
}

func TestRender_Error(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"validation", apperrors.Validation("All fields are required"), http.StatusBadRequest, "All fields are required"},
		{"conflict", apperrors.Conflict("User exists"), http.StatusConflict, "User exists"},
		{"unauthenticated", apperrors.Unauthenticated("Unauthorized request"), http.StatusUnauthorized, "Unauthorized request"},
		{"invalid token", apperrors.InvalidToken("Token is expired", errors.New("exp")), http.StatusUnauthorized, "Token is expired"},
		{"not found", apperrors.NotFound("User does not exist"), http.StatusNotFound, "User does not exist"},
		{"upload", apperrors.Upload("Error while uploading avatar", errors.New("s3")), http.StatusInternalServerError, "Error while uploading avatar"},
		{"persistence", apperrors.Persistence("Error loading user", nil), http.StatusInternalServerError, "Error loading user"},
		{"token issuance", apperrors.TokenIssuance("Something went wrong", nil), http.StatusInternalServerError, "Something went wrong"},
		{"wrapped kind", fmt.Errorf("outer: %w", apperrors.NotFound("Channel does not exist")), http.StatusNotFound, "Channel does not exist"},
		{"bare kind", apperrors.ErrConflict, http.StatusConflict, "Conflict"},
		{"unknown error hides its text", errors.New("pq: password authentication failed"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			status := Error(w, tt.err)

			require.Equal(t, tt.expectedStatus, status)
			require.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t,
				fmt.Sprintf(`{"data": null, "status": %d, "message": %q, "success": false}`, tt.expectedStatus, tt.expectedMessage),
				w.Body.String(),
			)
		})
	}
}

func TestRender_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := struct {
			Key      string `json:"key"`
			FullName int    `json:"fullName"`
		}{}

		r.Body = http.MaxBytesReader(w, r.Body, 64)
		err := json.NewDecoder(r.Body).Decode(&value)
		require.Error(t, err, "Please check what JSON was sent. Test expected that it is invalid")
		DecodeError(w, err)
	}))
	defer ts.Close()

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		expected       string
	}{
		{
			name:           "json parsing error",
			requestBody:    `invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expected: `{
				"data": null,
				"status": 400,
				"success": false,
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value"
			}`,
		},
		{
			name:           "invalid type ok",
			requestBody:    `{"key": "valid_json", "fullName": "but incorrect type"}`,
			expectedStatus: http.StatusBadRequest,
			expected: `{
				"data": null,
				"status": 400,
				"success": false,
				"message": "Invalid data type for field 'fullName'"
			}`,
		},
		{
			name:           "empty body",
			requestBody:    ``,
			expectedStatus: http.StatusBadRequest,
			expected: `{
				"data": null,
				"status": 400,
				"success": false,
				"message": "Request body is empty"
			}`,
		},
		{
			name:           "too large",
			requestBody:    `{"key": "` + strings.Repeat("a", 128) + `"}`,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expected: `{
				"data": null,
				"status": 413,
				"success": false,
				"message": "Request body is too large (limit 64 bytes)"
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/test", "application/json", strings.NewReader(tc.requestBody))
			require.NoError(t, err)
			require.Equal(t, tc.expectedStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.JSONEq(t, tc.expected, string(body))
		})
	}
}

func TestRender_ValidationErrors(t *testing.T) {
	validate := validator.New()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		invalidData := struct {
			Username string `validate:"required"`
			Password string `validate:"min=6"`
			Email    string `validate:"email"`
			Bio      string `validate:"alpha"`
		}{
			Username: "",
			Password: "123",
			Email:    "not-valid-email",
			Bio:      "42",
		}

		err := validate.Struct(invalidData)
		require.Error(t, err, "test expects that data not pass validation")
		errs, ok := err.(validator.ValidationErrors)
		require.True(t, ok, "be sure you pass structure to validator")
		ValidationErrors(w, errs)
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	expected, err := json.Marshal(Response{
		Status:  http.StatusBadRequest,
		Message: "Request validation failed",
		Errors: map[string]string{
			"Username": "This field is required",         // Message for 'required' tag
			"Password": "Value is too short (minimum 6)", // Message for 'min' validation tag
			"Email":    "Invalid email",
			"Bio":      "Invalid value", // Unknown validation tag failed: default validation error message
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, string(expected), string(body))
}

func TestRender_BindAndValidate(t *testing.T) {
	type Login struct {
		Username string `json:"username" validate:"required"`
	}

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid request",
			requestBody:    `{"username": "john"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"data": "john", "status": 200, "message": "ok", "success": true}`,
		},
		{
			name:           "invalid json",
			requestBody:    `invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"data": null,
				"status": 400,
				"success": false,
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value"
			}`,
		},
		{
			name:           "validation failed",
			requestBody:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"data": null,
				"status": 400,
				"success": false,
				"message": "Request validation failed",
				"errors": {
					"username": "This field is required"
				}
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, err := BindAndValidate[Login](w, r)
				if err != nil {
					return // Error response already written
				}
				// Success case
				JSON(w, http.StatusOK, data.Username, "ok")
			}))
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/test", "application/json", strings.NewReader(tc.requestBody))
			require.NoError(t, err)
			require.Equal(t, tc.expectedStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, string(body))
		})
	}
}
