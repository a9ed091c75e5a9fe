package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shortly-app/shortly/internal/auth"
	"github.com/shortly-app/shortly/internal/models"
)

// UserRepository defines the interface for the durable user store.
type UserRepository interface {
	// GetByID retrieves a user by id.
	// Returns database.ErrUserNotFound when the user doesn't exist.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// List returns a window of user records plus the total record count.
	List(ctx context.Context, limit, offset int, orderBy models.SortField, order models.SortOrder) ([]models.User, int64, error)

	// Update applies a partial update to a user's name, email and role;
	// empty arguments keep the current values.
	Update(ctx context.Context, id int64, name, email string, role models.Role) (*models.User, error)

	// Delete removes a user record.
	Delete(ctx context.Context, id int64) error
}

// Notifier sends outbound mail to users. Delivery is best-effort from the
// service's point of view.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type UserOption func(*UserService)

func WithNotifier(n Notifier) UserOption {
	return func(s *UserService) {
		s.notifier = n
	}
}

func WithUserPageSize(n int) UserOption {
	return func(s *UserService) {
		s.pageSize = n
	}
}

// UserService is the administrative user-management collaborator. Every
// operation requires the admin capability on the request context.
type UserService struct {
	repo     UserRepository
	notifier Notifier
	logger   *slog.Logger
	pageSize int
}

func NewUserService(logger *slog.Logger, repo UserRepository, opts ...UserOption) *UserService {
	s := &UserService{
		repo:     repo,
		logger:   logger,
		pageSize: defaultPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// authorize checks the capability attached to the request context before any
// repository access.
func (s *UserService) authorize(ctx context.Context) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok || claims.Role != models.RoleAdmin {
		return ErrPermissionDenied
	}

	return nil
}

func (s *UserService) List(ctx context.Context, page int, orderBy models.SortField, order models.SortOrder) (*models.Page[models.User], error) {
	const op = "service.UserService.List"

	if err := s.authorize(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if page < 1 {
		page = 1
	}
	if orderBy == "" {
		orderBy = models.SortByCreatedAt
	}
	if order == "" {
		order = models.SortDesc
	}

	offset := (page - 1) * s.pageSize

	users, total, err := s.repo.List(ctx, s.pageSize, offset, orderBy, order)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list users: %w", op, err)
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))

	return &models.Page[models.User]{
		Data:        users,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

func (s *UserService) Update(ctx context.Context, id int64, name, email string, role models.Role) (*models.User, error) {
	const op = "service.UserService.Update"

	if err := s.authorize(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.Update(ctx, id, name, email, role)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update user: %w", op, err)
	}

	return user, nil
}

// Remove deletes a user and notifies them by mail. Notification failures are
// logged, never surfaced.
func (s *UserService) Remove(ctx context.Context, id int64) error {
	const op = "service.UserService.Remove"

	if err := s.authorize(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to remove user: %w", op, err)
	}

	if s.notifier != nil {
		err := s.notifier.Send(ctx, user.Email,
			"Your account has been removed",
			fmt.Sprintf("Hello %s, your account has been removed by an administrator.", user.Name),
		)
		if err != nil {
			s.logger.Warn(
				"failed to send removal notification",
				slog.String("email", user.Email),
				slog.Any("err", err),
			)
		}
	}

	return nil
}
