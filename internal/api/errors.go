package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Fixed client-facing messages.
const (
	msgNotFound          = "Not found."
	msgServerError       = "A server error occurred."
	msgNoCredentials     = "Authentication credentials were not provided."
	msgInvalidAccess     = "Given token not valid for any token type"
	msgInvalidRefresh    = "Token is invalid or expired"
	msgInvalidLogin      = "Invalid credentials"
	msgDisabledAccount   = "User account is disabled"
	msgExportUnavailable = "Export storage is not configured."
	msgRequired          = "This field is required."
	msgBadDate           = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

func init() {
	// Report validation failures under the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// Helper to return a {"detail": ...} error response and abort the request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": message})
}

// abortWithFields answers 400 with a field -> messages map.
func abortWithFields(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, fields)
}

// abortWithBindError translates a ShouldBindJSON failure into the field map.
func abortWithBindError(c *gin.Context, err error) {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		fields := map[string][]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], validationMessage(fe))
		}
		abortWithFields(c, fields)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			abortWithFields(c, map[string][]string{service.NonFieldErrors: {"Invalid data. Expected a dictionary."}})
			return
		}
		abortWithFields(c, map[string][]string{field: {typeMessage(typeErr.Type.Kind())}})
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		abortWithError(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
	case errors.Is(err, io.EOF):
		abortWithFields(c, map[string][]string{service.NonFieldErrors: {"No data provided"}})
	default:
		var fieldErr *fieldValueError
		if errors.As(err, &fieldErr) {
			abortWithFields(c, map[string][]string{fieldErr.field: {fieldErr.message}})
			return
		}
		abortWithError(c, http.StatusBadRequest, err.Error())
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return "Enter a valid email address."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "datetime":
		return msgBadDate
	default:
		return "Invalid value."
	}
}

func typeMessage(kind reflect.Kind) string {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.String:
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}

// fieldValueError is raised by request mapping for a single bad field.
type fieldValueError struct {
	field   string
	message string
}

func (e *fieldValueError) Error() string { return e.field + ": " + e.message }

// respondServiceError maps service-layer errors onto the HTTP vocabulary.
// Anything unrecognised is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithFields(c, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWithFields(c, map[string][]string{service.NonFieldErrors: {msgInvalidLogin}})
	case errors.Is(err, service.ErrAccountDisabled):
		abortWithFields(c, map[string][]string{service.NonFieldErrors: {msgDisabledAccount}})
	case errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, msgInvalidRefresh)
	case errors.Is(err, service.ErrExportUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, msgExportUnavailable)
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, msgServerError)
	}
}
