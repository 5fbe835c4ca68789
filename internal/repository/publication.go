package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contentorchestrator/internal/models"
)

// PublicationRepo: журнал публикаций. Все записи адресуются ключом
// (article_id, platform, language), на котором стоит UNIQUE.
type PublicationRepo interface {
	UpsertPending(ctx context.Context, key models.PublicationKey) (*models.Publication, error)
	MarkPublished(ctx context.Context, key models.PublicationKey, platformID string, at time.Time) error
	MarkError(ctx context.Context, key models.PublicationKey, message string) error
	MarkUnpublished(ctx context.Context, key models.PublicationKey) error
	Find(ctx context.Context, key models.PublicationKey) (*models.Publication, error)
	ListByArticle(ctx context.Context, articleID string) ([]*models.Publication, error)
}

type publicationRepo struct{ db *pgxpool.Pool }

func NewPublicationRepo(db *pgxpool.Pool) PublicationRepo { return &publicationRepo{db: db} }

const publicationColumns = `id, article_id, platform, language, status, platform_id, error_message, published_at, created_at, updated_at`

func scanPublication(row rowScanner) (*models.Publication, error) {
	var p models.Publication
	if err := row.Scan(
		&p.ID, &p.ArticleID, &p.Platform, &p.Language, &p.Status,
		&p.PlatformID, &p.ErrorMessage, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *publicationRepo) UpsertPending(ctx context.Context, key models.PublicationKey) (*models.Publication, error) {
	const q = `
		INSERT INTO publications (id, article_id, platform, language, status)
		VALUES ($1, $2, $3, $4, 'PENDING')
		ON CONFLICT (article_id, platform, language)
		DO UPDATE SET status = 'PENDING', error_message = NULL, updated_at = NOW()
		RETURNING ` + publicationColumns
	return scanPublication(r.db.QueryRow(ctx, q, uuid.NewString(), key.ArticleID, key.Platform, key.Language))
}

func (r *publicationRepo) MarkPublished(ctx context.Context, key models.PublicationKey, platformID string, at time.Time) error {
	const q = `
		UPDATE publications
		SET status = 'PUBLISHED', platform_id = $4, published_at = $5, error_message = NULL, updated_at = NOW()
		WHERE article_id = $1 AND platform = $2 AND language = $3
	`
	return r.exec(ctx, q, key.ArticleID, key.Platform, key.Language, platformID, at)
}

func (r *publicationRepo) MarkError(ctx context.Context, key models.PublicationKey, message string) error {
	const q = `
		UPDATE publications
		SET status = 'ERROR', error_message = $4, updated_at = NOW()
		WHERE article_id = $1 AND platform = $2 AND language = $3
	`
	return r.exec(ctx, q, key.ArticleID, key.Platform, key.Language, message)
}

func (r *publicationRepo) MarkUnpublished(ctx context.Context, key models.PublicationKey) error {
	const q = `
		UPDATE publications
		SET status = 'PENDING', platform_id = NULL, updated_at = NOW()
		WHERE article_id = $1 AND platform = $2 AND language = $3
	`
	return r.exec(ctx, q, key.ArticleID, key.Platform, key.Language)
}

func (r *publicationRepo) exec(ctx context.Context, q string, args ...any) error {
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *publicationRepo) Find(ctx context.Context, key models.PublicationKey) (*models.Publication, error) {
	const q = `SELECT ` + publicationColumns + ` FROM publications WHERE article_id = $1 AND platform = $2 AND language = $3`
	return scanPublication(r.db.QueryRow(ctx, q, key.ArticleID, key.Platform, key.Language))
}

func (r *publicationRepo) ListByArticle(ctx context.Context, articleID string) ([]*models.Publication, error) {
	const q = `SELECT ` + publicationColumns + ` FROM publications WHERE article_id = $1 ORDER BY platform, language`
	rows, err := r.db.Query(ctx, q, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.Publication, 0)
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
