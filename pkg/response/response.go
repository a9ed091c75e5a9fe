// Package response defines the JSON envelope shared by every API endpoint.
package response

import (
	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details []any  `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Message: "The request body is malformed.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Message: "The requested resource was not found.",
}

var ForbiddenResponse = Response{
	Status:  StatusError,
	Message: "You don't have permission to perform this action.",
}

var ServerErrorResponse = Response{
	Status:  StatusError,
	Message: "An internal server error occurred. Please try again later.",
}

func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

// ValidationError describes a single failed field validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "oneof":
		return "value is not allowed"
	case "email":
		return "invalid email"
	default:
		return "invalid value"
	}
}

// ValidationErrorResponse converts validator errors into a client-facing
// envelope with per-field details.
func ValidationErrorResponse(err error) Response {
	resp := Response{
		Status:  StatusError,
		Message: "Validation failed for the request.",
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return resp
	}

	for _, e := range errs {
		resp.Details = append(resp.Details, ValidationError{
			Field:   e.Field(),
			Message: messageForTag(e.Tag()),
		})
	}

	return resp
}
