package models

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformLinkedIn Platform = "LINKEDIN"
	PlatformMedium   Platform = "MEDIUM"
	PlatformXing     Platform = "XING"
	PlatformRSS      Platform = "RSS"
	PlatformWebhook  Platform = "WEBHOOK"
)

type Language string

const (
	LanguageDE Language = "DE"
	LanguageEN Language = "EN"

	// PrimaryLanguage: язык основных полей статьи.
	PrimaryLanguage = LanguageDE
)

// ParseLanguage: пустая строка даёт основной язык.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return PrimaryLanguage, true
	case LanguageDE:
		return LanguageDE, true
	case LanguageEN:
		return LanguageEN, true
	}
	return "", false
}

type PublicationStatus string

const (
	PublicationPending   PublicationStatus = "PENDING"
	PublicationPublished PublicationStatus = "PUBLISHED"
	PublicationError     PublicationStatus = "ERROR"
)

type Publication struct {
	ID           string            `db:"id"            json:"id"`
	ArticleID    string            `db:"article_id"    json:"articleId"`
	Platform     Platform          `db:"platform"      json:"platform"`
	Language     Language          `db:"language"      json:"language"`
	Status       PublicationStatus `db:"status"        json:"status"`
	PlatformID   *string           `db:"platform_id"   json:"platformId,omitempty"`
	ErrorMessage *string           `db:"error_message" json:"errorMessage,omitempty"`
	PublishedAt  *time.Time        `db:"published_at"  json:"publishedAt,omitempty"`
	CreatedAt    time.Time         `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time         `db:"updated_at"    json:"updatedAt"`
}

func (p *Publication) Key() PublicationKey {
	return PublicationKey{ArticleID: p.ArticleID, Platform: p.Platform, Language: p.Language}
}

// PublicationKey: естественный ключ строки журнала публикаций.
type PublicationKey struct {
	ArticleID string
	Platform  Platform
	Language  Language
}

type PlatformDescriptor struct {
	Platform         Platform `json:"platform"`
	Name             string   `json:"name"`
	CouldAutoPublish bool     `json:"couldAutoPublish"`
}

// ContentView: поля статьи, уже выбранные под нужный язык.
type ContentView struct {
	ArticleID       string
	Language        Language
	Title           string
	Slug            string
	SourceURL       string
	MarkdownContent string
	LinkedinTeaser  string
	XingSummary     string
	SeoTitle        string
	SeoDescription  string
	Category        string
	OgImageURL      string
	CreatedAt       time.Time
}

type PublishResult struct {
	Success    bool   `json:"success"`
	PlatformID string `json:"platformId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PublishTarget: одна цель массовой публикации.
type PublishTarget struct {
	Platform    Platform `json:"platform"    validate:"required"`
	Language    Language `json:"language"`
	AccessToken string   `json:"accessToken"`
}

type PublishOutcome struct {
	Platform Platform      `json:"platform"`
	Language Language      `json:"language"`
	Skipped  bool          `json:"skipped"`
	Result   PublishResult `json:"result"`
}

// swagger:model PublishRequest
type PublishRequest struct {
	Platform    Platform `json:"platform"    validate:"required"   example:"LINKEDIN"`
	AccessToken string   `json:"accessToken"`
	Language    string   `json:"language"    example:"DE"`
}

// swagger:model PublishAllRequest
type PublishAllRequest struct {
	Targets []PublishTarget `json:"targets" validate:"required,min=1,dive"`
}
