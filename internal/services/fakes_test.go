package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"contentorchestrator/internal/models"
	"contentorchestrator/internal/repository"
)

// memArticles: in-memory ArticleRepo с той же семантикой, что и SQL-версия.
type memArticles struct {
	mu   sync.Mutex
	rows map[string]*models.Article

	statusHistory []models.ProcessingStatus
	claimErr      error
}

func newMemArticles(list ...*models.Article) *memArticles {
	m := &memArticles{rows: make(map[string]*models.Article)}
	for _, a := range list {
		cp := *a
		m.rows[a.ID] = &cp
	}
	return m
}

func (m *memArticles) get(id string) *models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (m *memArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.rows[a.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memArticles) GetByID(_ context.Context, id string) (*models.Article, error) {
	if a := m.get(id); a != nil {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memArticles) List(_ context.Context, limit, offset int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*models.Article, 0, len(m.rows))
	for _, a := range m.rows {
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*models.Article{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memArticles) Update(_ context.Context, id string, p models.ArticlePatch) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.Title, p.Title)
	set(&a.Slug, p.Slug)
	set(&a.MarkdownContent, p.MarkdownContent)
	set(&a.LinkedinTeaser, p.LinkedinTeaser)
	set(&a.XingSummary, p.XingSummary)
	set(&a.SeoTitle, p.SeoTitle)
	set(&a.SeoDescription, p.SeoDescription)
	set(&a.Category, p.Category)
	set(&a.OgImageURL, p.OgImageURL)
	set(&a.TitleEn, p.TitleEn)
	set(&a.MarkdownContentEn, p.MarkdownContentEn)
	set(&a.LinkedinTeaserEn, p.LinkedinTeaserEn)
	set(&a.XingSummaryEn, p.XingSummaryEn)
	set(&a.SeoTitleEn, p.SeoTitleEn)
	set(&a.SeoDescriptionEn, p.SeoDescriptionEn)
	switch {
	case p.ClearSchedule:
		a.ScheduledAt = nil
	case p.ScheduledAt != nil:
		at := *p.ScheduledAt
		a.ScheduledAt = &at
	}
	cp := *a
	return &cp, nil
}

func (m *memArticles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memArticles) SetProcessingStatus(_ context.Context, id string, status models.ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ProcessingStatus = status
	m.statusHistory = append(m.statusHistory, status)
	return nil
}

func (m *memArticles) SaveGenerated(_ context.Context, id string, g *models.GeneratedContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Title = g.SeoTitle
	a.Slug = g.Slug
	a.MarkdownContent = g.MarkdownContent
	a.LinkedinTeaser = g.LinkedinTeaser
	a.XingSummary = g.XingSummary
	a.SeoTitle = g.SeoTitle
	a.SeoDescription = g.SeoDescription
	a.Category = g.Category
	a.RawTranscript = g.RawTranscript
	a.ProcessingStatus = models.ProcessingCompleted
	m.statusHistory = append(m.statusHistory, models.ProcessingCompleted)
	return nil
}

func (m *memArticles) SaveTranslation(_ context.Context, id string, t *models.Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.TitleEn = t.Title
	a.MarkdownContentEn = t.MarkdownContent
	a.LinkedinTeaserEn = t.LinkedinTeaser
	a.XingSummaryEn = t.XingSummary
	a.SeoTitleEn = t.SeoTitle
	a.SeoDescriptionEn = t.SeoDescription
	return nil
}

func (m *memArticles) ListDueScheduled(_ context.Context, now time.Time) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Article
	for _, a := range m.rows {
		if a.ScheduledAt != nil && !a.ScheduledAt.After(now) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(*out[j].ScheduledAt) })
	return out, nil
}

func (m *memArticles) ClaimScheduled(_ context.Context, id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return false, m.claimErr
	}
	a, ok := m.rows[id]
	if !ok || a.ScheduledAt == nil || a.ScheduledAt.After(now) {
		return false, nil
	}
	a.ScheduledAt = nil
	return true, nil
}

func (m *memArticles) ListPublished(context.Context, int) ([]models.FeedEntry, error) {
	return nil, errors.New("not implemented in memArticles")
}

// memLedger: журнал публикаций; уникальность ключа обеспечивается картой.
type memLedger struct {
	mu   sync.Mutex
	rows map[models.PublicationKey]*models.Publication
	seq  int

	upserts int
}

func newMemLedger() *memLedger {
	return &memLedger{rows: make(map[models.PublicationKey]*models.Publication)}
}

func (l *memLedger) UpsertPending(_ context.Context, key models.PublicationKey) (*models.Publication, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.upserts++
	if p, ok := l.rows[key]; ok {
		p.Status = models.PublicationPending
		p.ErrorMessage = nil
		cp := *p
		return &cp, nil
	}
	l.seq++
	p := &models.Publication{
		ID:        fmt.Sprintf("pub-%d", l.seq),
		ArticleID: key.ArticleID,
		Platform:  key.Platform,
		Language:  key.Language,
		Status:    models.PublicationPending,
		CreatedAt: time.Now().UTC(),
	}
	l.rows[key] = p
	cp := *p
	return &cp, nil
}

func (l *memLedger) update(key models.PublicationKey, fn func(p *models.Publication)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.rows[key]
	if !ok {
		return repository.ErrNotFound
	}
	fn(p)
	return nil
}

func (l *memLedger) MarkPublished(_ context.Context, key models.PublicationKey, platformID string, at time.Time) error {
	return l.update(key, func(p *models.Publication) {
		p.Status = models.PublicationPublished
		p.PlatformID = &platformID
		p.PublishedAt = &at
		p.ErrorMessage = nil
	})
}

func (l *memLedger) MarkError(_ context.Context, key models.PublicationKey, message string) error {
	return l.update(key, func(p *models.Publication) {
		p.Status = models.PublicationError
		p.ErrorMessage = &message
	})
}

func (l *memLedger) MarkUnpublished(_ context.Context, key models.PublicationKey) error {
	return l.update(key, func(p *models.Publication) {
		p.Status = models.PublicationPending
		p.PlatformID = nil
	})
}

func (l *memLedger) Find(_ context.Context, key models.PublicationKey) (*models.Publication, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.rows[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (l *memLedger) ListByArticle(_ context.Context, articleID string) ([]*models.Publication, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Publication, 0)
	for _, p := range l.rows {
		if p.ArticleID == articleID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].Language < out[j].Language
	})
	return out, nil
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

// fakeAdapter считает вызовы и возвращает заранее заданные ответы.
type fakeAdapter struct {
	desc      models.PlatformDescriptor
	result    models.PublishResult
	unpublish bool
	panicMsg  string

	mu             sync.Mutex
	publishCalls   int
	unpublishCalls int
	lastView       models.ContentView
	lastCredential string
}

func newFakeAdapter(p models.Platform, auto bool) *fakeAdapter {
	return &fakeAdapter{
		desc:      models.PlatformDescriptor{Platform: p, Name: string(p), CouldAutoPublish: auto},
		result:    models.PublishResult{Success: true, PlatformID: string(p) + "-id"},
		unpublish: true,
	}
}

func (f *fakeAdapter) Descriptor() models.PlatformDescriptor { return f.desc }

func (f *fakeAdapter) Publish(_ context.Context, view models.ContentView, credential string) models.PublishResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishCalls++
	f.lastView = view
	f.lastCredential = credential
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.result
}

func (f *fakeAdapter) Unpublish(context.Context, string, string, string, models.Language) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpublishCalls++
	return f.unpublish
}

func (f *fakeAdapter) calls() (publish, unpublish int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.publishCalls, f.unpublishCalls
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []models.GenerationJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job models.GenerationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type stubExtractor struct {
	text  string
	err   error
	calls int
	url   string
}

func (s *stubExtractor) Extract(_ context.Context, sourceURL string) (string, error) {
	s.calls++
	s.url = sourceURL
	return s.text, s.err
}

type stubGenerator struct {
	out   *models.GeneratedContent
	err   error
	input string
}

func (s *stubGenerator) Generate(_ context.Context, raw string) (*models.GeneratedContent, error) {
	s.input = raw
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.out
	return &cp, nil
}

type stubTranslator struct {
	out *models.Translation
	err error
	src models.Translation
}

func (s *stubTranslator) Translate(_ context.Context, src models.Translation) (*models.Translation, error) {
	s.src = src
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.out
	return &cp, nil
}

func strp(s string) *string { return &s }
