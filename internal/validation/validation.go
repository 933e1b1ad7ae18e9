// Package validation holds the input rules for accounts and tasks. Every
// function here is pure: it takes the candidate input (and the current time
// where dates are involved) and returns the complete list of violations.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/task-manager-be/internal/models"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var (
	titleRule    = fmt.Sprintf("required,min=%d,max=%d", TitleMinLength, TitleMaxLength)
	descRule     = fmt.Sprintf("max=%d", DescriptionMaxLength)
	statusRule   = "oneof=" + joinStatuses()
	priorityRule = "oneof=" + joinPriorities()
)

func joinStatuses() string {
	parts := make([]string, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

func joinPriorities() string {
	parts := make([]string, len(models.TaskPriorities))
	for i, p := range models.TaskPriorities {
		parts[i] = string(p)
	}
	return strings.Join(parts, " ")
}

// dueDateLayouts are tried in order when parsing a due date.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 timestamps and plain calendar dates.
// Values without a zone are read as UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

// failedTag returns the first failing tag from a validator.Var error.
func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}
