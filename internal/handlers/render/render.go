package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
)

const internalErrorMessage = "Internal server error"

var validate = validator.New()

func init() {
	// Return on 'TagName' json tag instead of struct name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		// skip if tag key says it should be ignored
		if name == "-" {
			return ""
		}
		return name
	})
}

type Struct any

// Envelope of every response
// Success is true for statuses below 400
type Response struct {
	Data    any               `json:"data"`
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Render data wrapped into envelope
func JSON(w http.ResponseWriter, status int, data any, message string) {
	jsonWithStatus(w, Response{
		Data:    data,
		Status:  status,
		Message: message,
		Success: status < http.StatusBadRequest,
	}, status)
}

// Render error envelope with status derived from the error kind
// Returns the status so caller may log the failure
func Error(w http.ResponseWriter, err error) int {
	status, message := StatusOf(err)
	jsonWithStatus(w, Response{Status: status, Message: message}, status)
	return status
}

// Map error kind to status and client-facing message
// Unknown errors never disclose their text
func StatusOf(err error) (int, string) {
	var status int
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthenticated), errors.Is(err, apperrors.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrUpload),
		errors.Is(err, apperrors.ErrPersistence),
		errors.Is(err, apperrors.ErrTokenIssuance):
		status = http.StatusInternalServerError
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return status, appErr.Message
	}
	return status, http.StatusText(status)
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	var (
		status  = http.StatusBadRequest
		message string
	)

	// Try to provide more specific error message based on error type
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &sizeErr):
		status = http.StatusRequestEntityTooLarge
		message = fmt.Sprintf("Request body is too large (limit %d bytes)", sizeErr.Limit)
	case errors.As(err, &typeErr):
		message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	case errors.Is(err, io.EOF):
		message = "Request body is empty"
	default:
		message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	jsonWithStatus(w, Response{Status: status, Message: message}, status)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := Response{
		Status:  http.StatusBadRequest,
		Message: "Request validation failed",
		Errors:  make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		case "email":
			message = "Invalid email"
		default:
			message = "Invalid value"
		}

		response.Errors[fieldError.Field()] = message
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = Validate(w, value)
	return value, err
}

// Validate value already filled from form or query and render validation errors if any
func Validate[T Struct](w http.ResponseWriter, value T) error {
	err := validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return err
	}
	return nil
}

// renderJSONWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
