package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shortly-app/shortly/internal/database"
	"github.com/shortly-app/shortly/internal/models"
	"github.com/shortly-app/shortly/internal/service"
	"github.com/shortly-app/shortly/pkg/response"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type userPageResponse struct {
	Data        []userResponse `json:"data"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
}

// updateUserRequest carries a partial update; absent fields keep the current
// values, matching an empty update to a plain fetch.
type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin client"`
}

// listUsersQuery carries the public snake_case spellings of the listing
// parameters, mirroring the links listing.
type listUsersQuery struct {
	OrderBy string `json:"order_by" validate:"omitempty,oneof=created_at updated_at"`
	Order   string `json:"order" validate:"omitempty,oneof=asc desc"`
}

func handleListUsers(svc UserService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleListUsers"
	const successMsg = "The users were listed successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		query := listUsersQuery{
			OrderBy: r.URL.Query().Get("order_by"),
			Order:   r.URL.Query().Get("order"),
		}

		if err := validate.Struct(query); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		users, err := svc.List(r.Context(), page, sortFields[query.OrderBy], models.SortOrder(query.Order))
		if err != nil {
			if errors.Is(err, service.ErrPermissionDenied) {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ForbiddenResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		resp := userPageResponse{
			Data:        make([]userResponse, 0, len(users.Data)),
			CurrentPage: users.CurrentPage,
			TotalPages:  users.TotalPages,
		}
		for i := range users.Data {
			resp.Data = append(resp.Data, toUserResponse(&users.Data[i]))
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, resp))
	}
}

func handleUpdateUser(svc UserService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdateUser"
	const successMsg = "The user was updated successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ResourceNotFoundResponse)
			return
		}

		var req updateUserRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		user, err := svc.Update(r.Context(), id, req.Name, req.Email, models.Role(req.Role))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrPermissionDenied):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ForbiddenResponse)
			case errors.Is(err, database.ErrUserNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			case errors.Is(err, database.ErrEmailExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Response{
					Status:  response.StatusError,
					Message: "The email address is already taken.",
				})
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toUserResponse(user)))
	}
}

func handleRemoveUser(svc UserService) http.HandlerFunc {
	const op = "api.http.handleRemoveUser"
	const successMsg = "The user was removed successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.ResourceNotFoundResponse)
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, service.ErrPermissionDenied):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ForbiddenResponse)
			case errors.Is(err, database.ErrUserNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}
