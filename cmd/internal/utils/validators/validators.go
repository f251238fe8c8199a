package validators

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

var companyIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,49}$`)

// New returns a validator that reports fields under their json names and
// knows every custom tag used by the request contracts.
func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	Register(validate)
	return validate
}

func Register(validate *validator.Validate) {
	mustRegister(validate, "companyid", CompanyID)
	mustRegister(validate, "notblank", NotBlank)
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		log.Fatalf("failed to register validator %s: %v", tag, err)
	}
}

// CompanyID accepts lowercase identifiers such as "atos" or "urpea-2024".
func CompanyID(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return companyIDRegex.MatchString(field.String())
}

// NotBlank rejects strings made only of whitespace. Nil pointers are left
// to omitempty/omitnil.
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		log.Warnf("validator 'notblank' applied to non-string type: %s", field.Kind().String())
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}
