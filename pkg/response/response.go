package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// ErrorBody is the shape of every error response
type ErrorBody struct {
	Error string `json:"error"`
}

// OKBody acknowledges a command with no payload
type OKBody struct {
	OK bool `json:"ok"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// OK sends {"ok": true}
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, OKBody{OK: true})
}

// Error maps err to its status and writes {"error": message}. Server-side
// failures are logged with the request context; consistency violations
// are flagged so they can be alerted on.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	ctx := r.Context()

	switch {
	case kind == apperror.KindInternalConsistency:
		logger.Error(ctx).
			Err(err).
			Bool("consistency_violation", true).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Invariant violated, transaction rolled back")
	case status >= http.StatusInternalServerError:
		logger.Error(ctx).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	default:
		logger.Debug(ctx).Err(err).Int("status", status).Msg("Request rejected")
	}

	JSON(w, status, ErrorBody{Error: apperror.Message(err)})
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors use the
// json tag, and decimal amounts compare as numbers.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{})
	})
	return validate
}

// Decode reads a JSON body into dst. An empty body decodes to the zero
// value so handlers can report missing fields through validation.
func Decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.Validation("Invalid value for %s", typeErr.Field)
	}
	return apperror.Validation("Invalid request body")
}

// Validate runs struct validation and reports the first failing field
func Validate(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("Invalid request body")
	}
	return apperror.Validation("%s", fieldMessage(verrs[0]))
}

// DecodeAndValidate decodes a JSON body and validates it
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := Decode(r, dst); err != nil {
		return err
	}
	return Validate(dst)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	if fe.Kind() == reflect.Slice && (fe.Tag() == "min" || fe.Tag() == "required") {
		return field + " must contain at least one entry"
	}

	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "gt":
		return field + " must be > " + fe.Param()
	case "gte", "min":
		return field + " must be >= " + fe.Param()
	case "lte", "max":
		return field + " must be <= " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return field + " must be a valid email"
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	}
	return field + " is invalid"
}
