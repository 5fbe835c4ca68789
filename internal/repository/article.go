package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contentorchestrator/internal/models"
)

var ErrNotFound = errors.New("не найдено")

// psql: squirrel с плейсхолдерами $1, $2 ...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "slug", "source_url", "source_type", "raw_transcript",
	"markdown_content", "linkedin_teaser", "xing_summary", "seo_title", "seo_description", "category",
	"title_en", "markdown_content_en", "linkedin_teaser_en", "xing_summary_en", "seo_title_en", "seo_description_en",
	"processing_status", "scheduled_at", "created_at", "updated_at", "og_image_url",
}

type ArticleRepo interface {
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, limit, offset int) ([]*models.Article, error)
	Update(ctx context.Context, id string, p models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	SetProcessingStatus(ctx context.Context, id string, status models.ProcessingStatus) error
	SaveGenerated(ctx context.Context, id string, g *models.GeneratedContent) error
	SaveTranslation(ctx context.Context, id string, t *models.Translation) error
	ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Article, error)
	ClaimScheduled(ctx context.Context, id string, now time.Time) (bool, error)
	ListPublished(ctx context.Context, limit int) ([]models.FeedEntry, error)
}

type articleRepo struct{ db *pgxpool.Pool }

func NewArticleRepo(db *pgxpool.Pool) ArticleRepo { return &articleRepo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner, extra ...any) (*models.Article, error) {
	var a models.Article
	dest := []any{
		&a.ID, &a.Title, &a.Slug, &a.SourceURL, &a.SourceType, &a.RawTranscript,
		&a.MarkdownContent, &a.LinkedinTeaser, &a.XingSummary, &a.SeoTitle, &a.SeoDescription, &a.Category,
		&a.TitleEn, &a.MarkdownContentEn, &a.LinkedinTeaserEn, &a.XingSummaryEn, &a.SeoTitleEn, &a.SeoDescriptionEn,
		&a.ProcessingStatus, &a.ScheduledAt, &a.CreatedAt, &a.UpdatedAt, &a.OgImageURL,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	q, args, err := psql.Insert("articles").
		Columns("id", "title", "slug", "source_url", "source_type", "processing_status").
		Values(a.ID, a.Title, a.Slug, a.SourceURL, a.SourceType, a.ProcessingStatus).
		Suffix("RETURNING " + strings.Join(articleColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanArticle(r.db.QueryRow(ctx, q, args...))
}

func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	q, args, err := psql.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanArticle(r.db.QueryRow(ctx, q, args...))
}

func (r *articleRepo) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	q, args, err := psql.Select(articleColumns...).From("articles").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryArticles(ctx, q, args...)
}

func (r *articleRepo) queryArticles(ctx context.Context, q string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// buildArticleUpdate собирает UPDATE только по заданным полям патча.
func buildArticleUpdate(id string, p models.ArticlePatch) sq.UpdateBuilder {
	b := psql.Update("articles")
	set := func(col string, v *string) {
		if v != nil {
			b = b.Set(col, *v)
		}
	}
	set("title", p.Title)
	set("slug", p.Slug)
	set("markdown_content", p.MarkdownContent)
	set("linkedin_teaser", p.LinkedinTeaser)
	set("xing_summary", p.XingSummary)
	set("seo_title", p.SeoTitle)
	set("seo_description", p.SeoDescription)
	set("category", p.Category)
	set("og_image_url", p.OgImageURL)
	set("title_en", p.TitleEn)
	set("markdown_content_en", p.MarkdownContentEn)
	set("linkedin_teaser_en", p.LinkedinTeaserEn)
	set("xing_summary_en", p.XingSummaryEn)
	set("seo_title_en", p.SeoTitleEn)
	set("seo_description_en", p.SeoDescriptionEn)

	switch {
	case p.ClearSchedule:
		b = b.Set("scheduled_at", nil)
	case p.ScheduledAt != nil:
		b = b.Set("scheduled_at", *p.ScheduledAt)
	}

	return b.Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(articleColumns, ", "))
}

func (r *articleRepo) Update(ctx context.Context, id string, p models.ArticlePatch) (*models.Article, error) {
	q, args, err := buildArticleUpdate(id, p).ToSql()
	if err != nil {
		return nil, err
	}
	return scanArticle(r.db.QueryRow(ctx, q, args...))
}

func (r *articleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM articles WHERE id=$1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepo) SetProcessingStatus(ctx context.Context, id string, status models.ProcessingStatus) error {
	const q = `UPDATE articles SET processing_status=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.db.Exec(ctx, q, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveGenerated пишет все сгенерированные поля и COMPLETED одним UPDATE.
func (r *articleRepo) SaveGenerated(ctx context.Context, id string, g *models.GeneratedContent) error {
	const q = `
		UPDATE articles
		SET title = $2,
		    slug = $3,
		    markdown_content = $4,
		    linkedin_teaser = $5,
		    xing_summary = $6,
		    seo_title = $2,
		    seo_description = $7,
		    category = $8,
		    raw_transcript = $9,
		    processing_status = $10,
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, q, id,
		g.SeoTitle, g.Slug, g.MarkdownContent, g.LinkedinTeaser, g.XingSummary,
		g.SeoDescription, g.Category, g.RawTranscript, models.ProcessingCompleted,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepo) SaveTranslation(ctx context.Context, id string, t *models.Translation) error {
	const q = `
		UPDATE articles
		SET title_en = $2,
		    markdown_content_en = $3,
		    linkedin_teaser_en = $4,
		    xing_summary_en = $5,
		    seo_title_en = $6,
		    seo_description_en = $7,
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, q, id,
		t.Title, t.MarkdownContent, t.LinkedinTeaser, t.XingSummary, t.SeoTitle, t.SeoDescription,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepo) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Article, error) {
	q, args, err := psql.Select(articleColumns...).From("articles").
		Where(sq.LtOrEq{"scheduled_at": now}).
		OrderBy("scheduled_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryArticles(ctx, q, args...)
}

// ClaimScheduled снимает расписание, только если оно ещё стоит и уже наступило.
// false: статью забрал другой проход планировщика или расписание поменяли.
func (r *articleRepo) ClaimScheduled(ctx context.Context, id string, now time.Time) (bool, error) {
	const q = `
		UPDATE articles
		SET scheduled_at = NULL, updated_at = NOW()
		WHERE id = $1 AND scheduled_at IS NOT NULL AND scheduled_at <= $2
	`
	tag, err := r.db.Exec(ctx, q, id, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *articleRepo) ListPublished(ctx context.Context, limit int) ([]models.FeedEntry, error) {
	cols := make([]string, len(articleColumns))
	for i, c := range articleColumns {
		cols[i] = "a." + c
	}
	q, args, err := psql.Select(cols...).Column("MAX(p.published_at) AS last_published").
		From("articles a").
		Join("publications p ON p.article_id = a.id").
		Where(sq.Eq{"p.status": models.PublicationPublished}).
		GroupBy("a.id").
		OrderBy("last_published DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FeedEntry
	for rows.Next() {
		var at *time.Time
		a, err := scanArticle(rows, &at)
		if err != nil {
			return nil, err
		}
		e := models.FeedEntry{Article: a}
		if at != nil {
			e.PublishedAt = *at
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
