package site

import (
	"errors"

	"github.com/bilgisen/haxsite/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidFormat is returned for any payload that fails the shape check.
var ErrInvalidFormat = errors.New("invalid data format")

// payloadShape is the minimal shape a site document must have.
type payloadShape struct {
	Metadata any `validate:"truthy"`
	Items    any `validate:"jsonarray"`
}

// Validator gates fetched payloads before transformation.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("truthy", func(fl validator.FieldLevel) bool {
		return models.NewNode(fl.Field().Interface()).Truthy()
	})
	_ = v.RegisterValidation("jsonarray", func(fl validator.FieldLevel) bool {
		return models.NewNode(fl.Field().Interface()).IsArray()
	})
	return &Validator{validate: v}
}

// Validate accepts a payload whose metadata is truthy and whose items is an
// array (possibly empty). Everything else yields ErrInvalidFormat. The
// payload is only read.
func (v *Validator) Validate(p models.RawSitePayload) error {
	if !p.Root.IsObject() {
		return ErrInvalidFormat
	}

	shape := payloadShape{
		Metadata: p.Metadata().Value(),
		Items:    p.Items().Value(),
	}
	if err := v.validate.Struct(shape); err != nil {
		return ErrInvalidFormat
	}
	return nil
}

// Valid is the boolean form of Validate.
func (v *Validator) Valid(p models.RawSitePayload) bool {
	return v.Validate(p) == nil
}
