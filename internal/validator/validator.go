// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("platform", validatePlatform)
		_ = v.RegisterValidation("calc_period", validateCalcPeriod)
		_ = v.RegisterValidation("proof_type", validateProofType)
		_ = v.RegisterValidation("beat_status", validateBeatStatus)
		_ = v.RegisterValidation("content_type", validateContentType)
	}
}

// validatePlatform accepts the platforms with a dedicated rate table.
// Unrecognized platforms are allowed at the service layer (they score with
// default rates); this tag is for endpoints that require a known platform.
func validatePlatform(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "youtube", "instagram", "twitter", "tiktok", "spotify":
		return true
	}
	return false
}

func validateCalcPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly":
		return true
	}
	return false
}

func validateProofType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "proof_of_post", "proof_of_hold", "proof_of_use", "proof_of_support":
		return true
	}
	return false
}

func validateBeatStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "archived", "disputed", "verified":
		return true
	}
	return false
}

func validateContentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "video", "short", "post", "story", "reel", "track", "stream":
		return true
	}
	return false
}
