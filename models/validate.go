package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("targetdate", func(fl validator.FieldLevel) bool {
		_, err := ParseTargetDate(fl.Field().String(), time.UTC)
		return err == nil
	})
	return v
}

// Validate проверяет теги структуры у сохранённой или входящей записи.
func Validate(s interface{}) error {
	return validate.Struct(s)
}
