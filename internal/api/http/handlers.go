package http

import (
	"errors"
	"fmt"
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

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

type createLinkRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type linkResponse struct {
	ID         int64     `json:"id"`
	Hash       string    `json:"hash"`
	URL        string    `json:"url"`
	ClickCount int64     `json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toLinkResponse(link *models.ShortLink) linkResponse {
	return linkResponse{
		ID:         link.ID,
		Hash:       link.Hash,
		URL:        link.OriginalURL,
		ClickCount: link.ClickCount,
		CreatedAt:  link.CreatedAt,
		UpdatedAt:  link.UpdatedAt,
	}
}

type linkPageResponse struct {
	Data        []linkResponse `json:"data"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
}

func toLinkPageResponse(page *models.Page[models.ShortLink]) linkPageResponse {
	resp := linkPageResponse{
		Data:        make([]linkResponse, 0, len(page.Data)),
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}

	for i := range page.Data {
		resp.Data = append(resp.Data, toLinkResponse(&page.Data[i]))
	}

	return resp
}

func handleCreateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateLink"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req createLinkRequest

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

		link, err := svc.Shorten(r.Context(), req.URL)
		if err != nil {
			if errors.Is(err, service.ErrInvalidURL) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// listLinksQuery carries the public snake_case spellings of the listing
// parameters.
type listLinksQuery struct {
	OrderBy string `json:"order_by" validate:"omitempty,oneof=created_at updated_at"`
	Order   string `json:"order" validate:"omitempty,oneof=asc desc"`
}

// sortFields maps the boundary's order_by spellings to the core's canonical
// sort keys.
var sortFields = map[string]models.SortField{
	"created_at": models.SortByCreatedAt,
	"updated_at": models.SortByUpdatedAt,
}

func handleListLinks(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleListLinks"
	const successMsg = "The links were listed successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		query := listLinksQuery{
			OrderBy: r.URL.Query().Get("order_by"),
			Order:   r.URL.Query().Get("order"),
		}

		if err := validate.Struct(query); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		links, err := svc.List(r.Context(), page, sortFields[query.OrderBy], models.SortOrder(query.Order))
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkPageResponse(links)))
	}
}

// handleRedirect resolves a hash and sends the client to the stored URL. An
// unknown hash answers with a null payload rather than an error; that
// contract is deliberate at this boundary.
func handleRedirect(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		hash := chi.URLParam(r, "hash")

		link, err := svc.Resolve(r.Context(), hash)
		if err != nil {
			if errors.Is(err, database.ErrLinkNotFound) {
				render.Status(r, http.StatusOK)
				render.JSON(w, r, nil)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			if errors.Is(err, service.ErrResolutionTimeout) {
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.ServerErrorResponse)
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		http.Redirect(w, r, link.OriginalURL, http.StatusFound)
	}
}
