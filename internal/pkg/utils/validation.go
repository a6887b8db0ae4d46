package utils

import (
	"medibook-service/internal/pkg/constvars"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("dateonly", validateDateOnly)
	validate.RegisterValidation("hhmm", validateHHMM)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.AppointmentDateFormat, fl.Field().String())
	return err == nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.AppointmentTimeFormat, fl.Field().String())
	return err == nil
}
