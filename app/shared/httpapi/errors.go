package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	leaderboardservice "github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/infrastructure/trackrecord"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
)

// ValidationError reports malformed request input.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Err != nil {
			return "invalid request: " + e.Err.Error()
		}
		return "invalid request"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Err: err}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describeRule(fe)
	}
	return &ValidationError{Fields: fields, Err: err}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	var (
		validationErr *ValidationError
		loadErr       *memberdomain.LoadError
		overrideErr   *groupservice.OverrideError
		scoreErr      *scoredomain.InvalidScoreError
	)
	switch {
	case errors.As(err, &scoreErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validationErr),
		errors.As(err, &loadErr),
		errors.As(err, &overrideErr),
		errors.Is(err, memberdomain.ErrInvalidName),
		errors.Is(err, groupservice.ErrInvalidGroupSize),
		errors.Is(err, session.ErrInvalidOutingDate),
		errors.Is(err, trackrecord.ErrMissingSheet),
		errors.Is(err, trackrecord.ErrInvalidWorkbook):
		return http.StatusBadRequest
	case errors.Is(err, memberdomain.ErrMemberNotFound),
		errors.Is(err, scoredomain.ErrSheetNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, leaderboardservice.ErrNoChartData):
		return http.StatusNotFound
	case errors.Is(err, leaderboardservice.ErrNoGroups),
		errors.Is(err, leaderboardservice.ErrNoSummary):
		return http.StatusConflict
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
