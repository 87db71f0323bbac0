package preflight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ignite/internal/api"
	"ignite/internal/pricing"
	"ignite/internal/scenes"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request is the material a generation run starts from.
type Request struct {
	ProjectTitle    string `validate:"required,min=1,max=120"`
	Prompt          string `validate:"required,min=1"`
	DurationSeconds int    `validate:"required,min=5,max=60"`
	AspectRatio     string `validate:"omitempty,oneof=9:16 16:9 1:1"`
	ImageModel      string
	Features        api.Features
}

// Result carries the advisory numbers computed during a successful check.
type Result struct {
	SceneCount    int
	EstimatedCost int
	Plan          []string
}

// ErrInsufficientCredits wraps the advisory balance check. The server is
// still authoritative; this only catches the obvious case early.
var ErrInsufficientCredits = errors.New("insufficient credits")

// Check validates the request shape and, when balance is non-negative,
// verifies the estimated cost fits the known credit balance. Pass a negative
// balance to skip the advisory check.
func Check(req Request, balance int) (Result, error) {
	req.ProjectTitle = strings.TrimSpace(req.ProjectTitle)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := validate.Struct(req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return Result{}, fmt.Errorf("preflight: %w", err)
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return Result{}, fmt.Errorf("preflight: %s", describe(fieldErrs[0]))
		}
		return Result{}, fmt.Errorf("preflight: %w", err)
	}

	count := scenes.Count(req.DurationSeconds)
	result := Result{
		SceneCount:    count,
		EstimatedCost: pricing.Cost(count, req.Features, req.ImageModel),
		Plan:          scenes.Plan(count),
	}
	if balance >= 0 && result.EstimatedCost > balance {
		return result, fmt.Errorf("%w: need %d, have %d",
			ErrInsufficientCredits, result.EstimatedCost, balance)
	}
	return result, nil
}

func describe(fe validator.FieldError) string {
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func fieldName(field string) string {
	switch field {
	case "ProjectTitle":
		return "project title"
	case "Prompt":
		return "prompt"
	case "DurationSeconds":
		return "duration"
	case "AspectRatio":
		return "aspect ratio"
	default:
		return strings.ToLower(field)
	}
}
