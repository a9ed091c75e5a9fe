package response

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		data []any
		want Response
	}{
		{
			name: "without data",
			msg:  "Operation successful.",
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
			},
		},
		{
			name: "with data",
			msg:  "Operation successful.",
			data: []any{map[string]any{"id": 1}},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
				Data:    map[string]any{"id": 1},
			},
		},
		{
			name: "with multiple data",
			msg:  "Operation successful.",
			data: []any{
				map[string]any{"id": 1},
				map[string]any{"id": 2},
			},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
				Data:    map[string]any{"id": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessResponse(tt.msg, tt.data...)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	type req struct {
		Name string `json:"name" validate:"required"`
		URL  string `json:"url" validate:"required,url"`
	}

	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	t.Run("not a validator error", func(t *testing.T) {
		resp := ValidationErrorResponse(errors.New("unknown error"))

		assert.Equal(t, StatusError, resp.Status)
		assert.Empty(t, resp.Details)
	})

	t.Run("one error", func(t *testing.T) {
		err := validate.Struct(req{Name: "", URL: "https://example.com"})

		resp := ValidationErrorResponse(err)

		assert.Equal(t, StatusError, resp.Status)
		assert.Equal(t, []any{
			ValidationError{Field: "name", Message: "this field is required"},
		}, resp.Details)
	})

	t.Run("two errors", func(t *testing.T) {
		err := validate.Struct(req{Name: "", URL: "not url"})

		resp := ValidationErrorResponse(err)

		assert.Equal(t, StatusError, resp.Status)
		assert.Equal(t, []any{
			ValidationError{Field: "name", Message: "this field is required"},
			ValidationError{Field: "url", Message: "invalid url"},
		}, resp.Details)
	})
}
