package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
)

// phonePattern is checked before the leading "+" is enforced.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

var initOnce sync.Once

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the funnel's custom tags.
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			configure(v)
		}
	})
}

// New returns a standalone validator configured like Gin's, for use outside request binding.
func New() *validator.Validate {
	v := validator.New()
	configure(v)
	return v
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("loyalty_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("birth_month", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, m := range entity.BirthMonths {
			if m == s {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("birth_day", func(fl validator.FieldLevel) bool {
		d, err := strconv.Atoi(fl.Field().String())
		return err == nil && d >= 1 && d <= 31
	})
	v.RegisterAlias("person_name", "min=2")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "loyalty_phone", "e164":
		return "must be a valid phone number"
	case "birth_month":
		return "must be an English month name"
	case "birth_day":
		return "must be a day between 1 and 31"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return "must be at most " + param
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	default:
		return "is invalid"
	}
}

// FirstError returns "field message" for the first detail in a stable order.
func FirstError(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0] + " " + details[keys[0]]
}
