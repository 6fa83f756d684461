package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

// NewValidator returns a validator with the milestonestatus tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("milestonestatus", func(fl validator.FieldLevel) bool {
		return models.MilestoneStatus(fl.Field().String()).Valid()
	})
	return v
}
