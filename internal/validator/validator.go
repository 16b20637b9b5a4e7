package validator

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

const MaxStudentNameLength = 100

// Validator combines struct tag validation with activity definition checks
type Validator struct {
	structValidator   *validator.Validate
	activityValidator *ActivityValidator
}

func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		activityValidator: NewActivityValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

func (v *Validator) Activity() *ActivityValidator {
	return v.activityValidator
}

// Engine exposes the underlying validator, e.g. for gin binding
func (v *Validator) Engine() *validator.Validate {
	return v.structValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("activity_kind", validateActivityKind)
	validate.RegisterValidation("language", validateLanguage)
	validate.RegisterValidation("student_name", validateStudentName)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateActivityKind(fl validator.FieldLevel) bool {
	return models.ActivityKind(fl.Field().String()).Valid()
}

func validateLanguage(fl validator.FieldLevel) bool {
	switch models.Language(fl.Field().String()) {
	case models.LanguageES, models.LanguageEN:
		return true
	}
	return false
}

// student names are trimmed, non-empty and bounded
func validateStudentName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && utf8.RuneCountInString(name) <= MaxStudentNameLength
}
