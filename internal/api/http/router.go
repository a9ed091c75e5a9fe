// Package http provides the HTTP boundary of the shortener: routing, request
// parsing and response formatting. The boundary owns the snake_case spellings
// of the public API and maps them to the core's canonical keys.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/shortly-app/shortly/internal/auth"
	"github.com/shortly-app/shortly/internal/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

// LinkService defines the core link pathways consumed by the boundary.
type LinkService interface {
	// Shorten creates a hash-addressed record for the URL, returning the
	// existing record when the exact URL was already shortened.
	Shorten(ctx context.Context, originalURL string) (*models.ShortLink, error)

	// Resolve maps a hash back to its link and records the access.
	Resolve(ctx context.Context, hash string) (*models.ShortLink, error)

	// List enumerates links for administrative display.
	List(ctx context.Context, page int, orderBy models.SortField, order models.SortOrder) (*models.Page[models.ShortLink], error)
}

// UserService defines the administrative user-management collaborator.
type UserService interface {
	List(ctx context.Context, page int, orderBy models.SortField, order models.SortOrder) (*models.Page[models.User], error)
	Update(ctx context.Context, id int64, name, email string, role models.Role) (*models.User, error)
	Remove(ctx context.Context, id int64) error
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func NewRouter(logger *httplog.Logger, linkSvc LinkService, userSvc UserService, authSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	// Redirects sit outside the versioned API; this is the path short links
	// are handed out on.
	r.Get("/r/{hash}", handleRedirect(linkSvc))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		validate := getValidate()

		r.Get("/ping", handlePing)

		r.Route("/links", func(r chi.Router) {
			r.Post("/", handleCreateLink(linkSvc, validate))
			r.Get("/", handleListLinks(linkSvc, validate))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.Middleware(authSecret))

			r.Get("/", handleListUsers(userSvc, validate))

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", handleUpdateUser(userSvc, validate))
				r.Delete("/", handleRemoveUser(userSvc))
			})
		})
	})

	return r
}
