package middleware

import (
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
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

// FieldMatcher is implemented by request structs whose fields must carry equal
// values, such as a password and its repetition. Each pair names two struct
// fields; a mismatch is reported on the second one.
type FieldMatcher interface {
	FieldMatches() [][2]string
}

// SetupValidator installs the custom validators on gin's engine and registers
// the fieldmatch check for the given request types
func SetupValidator(matchers ...FieldMatcher) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterValidators(v, matchers...)
}

// RegisterValidators adds enum, enumci and fieldmatch to v and reports
// field names by their json tag
func RegisterValidators(v *validator.Validate, matchers ...FieldMatcher) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		return IsEnumMember(fl.Field().String(), fl.Param(), false)
	}); err != nil {
		return fmt.Errorf("register enum validator: %w", err)
	}
	if err := v.RegisterValidation("enumci", func(fl validator.FieldLevel) bool {
		return IsEnumMember(fl.Field().String(), fl.Param(), true)
	}); err != nil {
		return fmt.Errorf("register enumci validator: %w", err)
	}

	if len(matchers) > 0 {
		types := make([]any, len(matchers))
		for i, m := range matchers {
			types[i] = m
		}
		v.RegisterStructValidation(fieldMatchValidation, types...)
	}
	return nil
}

// IsEnumMember reports whether value is one of the space separated members.
// The empty value is accepted; combine with required to refuse it.
func IsEnumMember(value, members string, caseInsensitive bool) bool {
	if value == "" {
		return true
	}
	for _, m := range strings.Fields(members) {
		if m == value || (caseInsensitive && strings.EqualFold(m, value)) {
			return true
		}
	}
	return false
}

// FieldsMatch reports whether the two named fields of the struct s are equal.
// Unknown field names never match.
func FieldsMatch(s any, first, second string) bool {
	v := reflect.Indirect(reflect.ValueOf(s))
	if v.Kind() != reflect.Struct {
		return false
	}
	a, b := v.FieldByName(first), v.FieldByName(second)
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func fieldMatchValidation(sl validator.StructLevel) {
	current := sl.Current()
	m, ok := current.Interface().(FieldMatcher)
	if !ok {
		return
	}
	for _, pair := range m.FieldMatches() {
		if FieldsMatch(current.Interface(), pair[0], pair[1]) {
			continue
		}
		name := pair[1]
		if f, ok := current.Type().FieldByName(pair[1]); ok {
			if n := jsonFieldName(f); n != "" {
				name = n
			}
		}
		var value any
		if fv := current.FieldByName(pair[1]); fv.IsValid() {
			value = fv.Interface()
		}
		sl.ReportError(value, name, pair[1], "fieldmatch", pair[0])
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// FormatValidationErrors converts validator errors to response details
func FormatValidationErrors(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: validationMessage(e),
			Tag:     e.Tag(),
		})
	}
	return details
}

// HandleBindError answers a failed ShouldBind* call: 400 with field details
// for validation failures, ERR_INVALID_JSON for malformed bodies
func HandleBindError(c *gin.Context, err error) {
	if details := FormatValidationErrors(err); details != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewValidationErrorResponse("Request validation failed", GetRequestID(c), details))
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		abort(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed JSON body")
	case errors.As(err, &typeErr):
		abort(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, fmt.Sprintf("Field %s has the wrong type", typeErr.Field))
	default:
		abort(c, http.StatusBadRequest, dto.ErrCodeBadRequest, err.Error())
	}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof", "enum":
		return "Must be one of: " + e.Param()
	case "enumci":
		return "Must be one of (case-insensitive): " + e.Param()
	case "fieldmatch", "eqfield":
		return "Must match " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "url":
		return "Invalid URL format"
	case "alphanum":
		return "Must be alphanumeric"
	default:
		return "Invalid value"
	}
}
