package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/task-manager-be/internal/apperr"
	"github.com/isdelr/task-manager-be/internal/models"
)

// TaskInput is a task payload as sent by a client. A nil field was not
// supplied. Clients cannot set the owner.
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// TaskFields is the normalized result of validating a TaskInput. Nil fields
// were not supplied.
type TaskFields struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

// ValidateTaskCreate checks a full task payload. Title is required; the
// other fields are optional.
func ValidateTaskCreate(in TaskInput, now time.Time) (TaskFields, []apperr.FieldError) {
	if in.Title == nil {
		empty := ""
		in.Title = &empty
	}
	return validateTask(in, now)
}

// ValidateTaskUpdate checks only the fields present in a partial payload.
func ValidateTaskUpdate(in TaskInput, now time.Time) (TaskFields, []apperr.FieldError) {
	return validateTask(in, now)
}

func validateTask(in TaskInput, now time.Time) (TaskFields, []apperr.FieldError) {
	var out TaskFields
	var errs []apperr.FieldError

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validate.Var(title, titleRule); err != nil {
			msg := fmt.Sprintf("Title must be between %d and %d characters", TitleMinLength, TitleMaxLength)
			if failedTag(err) == "required" {
				msg = "Title is required"
			}
			errs = append(errs, apperr.FieldError{Field: "title", Message: msg})
		} else {
			out.Title = &title
		}
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := validate.Var(desc, descRule); err != nil {
			errs = append(errs, apperr.FieldError{Field: "description", Message: fmt.Sprintf("Description cannot exceed %d characters", DescriptionMaxLength)})
		} else {
			out.Description = &desc
		}
	}

	if in.Status != nil {
		if err := validate.Var(*in.Status, statusRule); err != nil {
			errs = append(errs, apperr.FieldError{Field: "status", Message: "Status must be pending, in-progress, or completed"})
		} else {
			status := models.TaskStatus(*in.Status)
			out.Status = &status
		}
	}

	if in.Priority != nil {
		if err := validate.Var(*in.Priority, priorityRule); err != nil {
			errs = append(errs, apperr.FieldError{Field: "priority", Message: "Priority must be low, medium, or high"})
		} else {
			priority := models.TaskPriority(*in.Priority)
			out.Priority = &priority
		}
	}

	if in.DueDate != nil {
		due, err := ParseDueDate(*in.DueDate)
		switch {
		case err != nil:
			errs = append(errs, apperr.FieldError{Field: "dueDate", Message: "Due date must be a valid date"})
		case due.Before(now):
			errs = append(errs, apperr.FieldError{Field: "dueDate", Message: "Due date must not be in the past"})
		default:
			out.DueDate = &due
		}
	}

	return out, errs
}

// ValidateTaskFilter checks list query parameters and builds the filter.
// The owner constraint is left for the caller to set.
func ValidateTaskFilter(status, priority, sort string) (models.TaskFilter, []apperr.FieldError) {
	var filter models.TaskFilter
	var errs []apperr.FieldError

	if status != "" {
		if err := validate.Var(status, statusRule); err != nil {
			errs = append(errs, apperr.FieldError{Field: "status", Message: "Status must be pending, in-progress, or completed"})
		} else {
			filter.Status = models.TaskStatus(status)
		}
	}
	if priority != "" {
		if err := validate.Var(priority, priorityRule); err != nil {
			errs = append(errs, apperr.FieldError{Field: "priority", Message: "Priority must be low, medium, or high"})
		} else {
			filter.Priority = models.TaskPriority(priority)
		}
	}

	taskSort, ok := models.ParseTaskSort(sort)
	if !ok {
		errs = append(errs, apperr.FieldError{Field: "sort", Message: "Sort must be one of createdAt, updatedAt, dueDate, title, status, priority, optionally prefixed with -"})
	}
	filter.Sort = taskSort

	return filter, errs
}
