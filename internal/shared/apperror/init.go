package apperror

import (
	"reflect"
	"regexp"
	"strings"

	"go-hr-payroll/internal/shared/workday"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Init registers the json tag name func and the custom tags used by request DTOs
// on gin's validator engine. It must run before the router serves requests.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// period: YYYY-MM with a real month
	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return periodPattern.MatchString(fl.Field().String())
	})

	// clock: HH:MM in 24h
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := workday.ParseClock(s)
		return err == nil
	})
}
