package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shortly-app/shortly/internal/database"
	"github.com/shortly-app/shortly/internal/models"
)

type linkRecord struct {
	ID          int64     `db:"id"`
	Hash        string    `db:"hash"`
	OriginalURL string    `db:"original_url"`
	ClickCount  int64     `db:"click_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *linkRecord) ToShortLink() *models.ShortLink {
	return &models.ShortLink{
		ID:          r.ID,
		Hash:        r.Hash,
		OriginalURL: r.OriginalURL,
		ClickCount:  r.ClickCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// sortColumns whitelists the columns a listing may be ordered by. Anything
// else falls back to created_at.
var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

func (r *LinkRepository) Create(ctx context.Context, hash, originalURL string) (*models.ShortLink, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(hash, original_url)
		VALUES ($1, $2)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, hash, originalURL)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrHashExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	return rec.ToShortLink(), nil
}

func (r *LinkRepository) GetByHash(ctx context.Context, hash string) (*models.ShortLink, error) {
	const op = "database.postgres.LinkRepository.GetByHash"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE hash = $1`

	err := r.db.GetContext(ctx, rec, query, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToShortLink(), nil
}

// GetByURL retrieves the live record for an exact original URL string.
// No normalization is applied before the match.
func (r *LinkRepository) GetByURL(ctx context.Context, originalURL string) (*models.ShortLink, error) {
	const op = "database.postgres.LinkRepository.GetByURL"

	rec := new(linkRecord)
	query := `SELECT * FROM links WHERE original_url = $1 ORDER BY id LIMIT 1`

	err := r.db.GetContext(ctx, rec, query, originalURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record by url: %w", op, err)
	}

	return rec.ToShortLink(), nil
}

// IncrementClicks applies a single-row atomic increment, so concurrent
// redirects to the same hash never lose updates.
func (r *LinkRepository) IncrementClicks(ctx context.Context, hash string) error {
	const op = "database.postgres.LinkRepository.IncrementClicks"

	query := `UPDATE links
		SET click_count = click_count + 1,
			updated_at = now()
		WHERE hash = $1`

	res, err := r.db.ExecContext(ctx, query, hash)
	if err != nil {
		return fmt.Errorf("%s: failed to increment click count: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrLinkNotFound)
	}

	return nil
}

// List returns a window of link records plus the total number of records.
func (r *LinkRepository) List(ctx context.Context, limit, offset int, orderBy models.SortField, order models.SortOrder) ([]models.ShortLink, int64, error) {
	const op = "database.postgres.LinkRepository.List"

	column, ok := sortColumns[orderBy]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if order == models.SortAsc {
		direction = "ASC"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM links`); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count link records: %w", op, err)
	}

	query := fmt.Sprintf(`SELECT * FROM links ORDER BY %s %s LIMIT $1 OFFSET $2`, column, direction)

	var recs []linkRecord
	if err := r.db.SelectContext(ctx, &recs, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]models.ShortLink, 0, len(recs))
	for _, rec := range recs {
		links = append(links, *rec.ToShortLink())
	}

	return links, total, nil
}
