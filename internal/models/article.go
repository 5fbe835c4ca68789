package models

import "time"

type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "PENDING"
	ProcessingProcessing ProcessingStatus = "PROCESSING"
	ProcessingCompleted  ProcessingStatus = "COMPLETED"
	ProcessingFailed     ProcessingStatus = "FAILED"
)

type SourceType string

const (
	SourceYouTube SourceType = "YOUTUBE"
	SourceMedium  SourceType = "MEDIUM"
)

func (s SourceType) Valid() bool {
	return s == SourceYouTube || s == SourceMedium
}

type Article struct {
	ID            string     `db:"id"             json:"id"`
	Title         string     `db:"title"          json:"title"`
	Slug          string     `db:"slug"           json:"slug"`
	SourceURL     string     `db:"source_url"     json:"sourceUrl"`
	SourceType    SourceType `db:"source_type"    json:"sourceType"`
	RawTranscript string     `db:"raw_transcript" json:"rawTranscript,omitempty"`

	MarkdownContent string `db:"markdown_content" json:"markdownContent"`
	LinkedinTeaser  string `db:"linkedin_teaser"  json:"linkedinTeaser"`
	XingSummary     string `db:"xing_summary"     json:"xingSummary"`
	SeoTitle        string `db:"seo_title"        json:"seoTitle"`
	SeoDescription  string `db:"seo_description"  json:"seoDescription"`
	Category        string `db:"category"         json:"category"`
	OgImageURL      string `db:"og_image_url"     json:"ogImageUrl,omitempty"`

	TitleEn           string `db:"title_en"            json:"titleEn,omitempty"`
	MarkdownContentEn string `db:"markdown_content_en" json:"markdownContentEn,omitempty"`
	LinkedinTeaserEn  string `db:"linkedin_teaser_en"  json:"linkedinTeaserEn,omitempty"`
	XingSummaryEn     string `db:"xing_summary_en"     json:"xingSummaryEn,omitempty"`
	SeoTitleEn        string `db:"seo_title_en"        json:"seoTitleEn,omitempty"`
	SeoDescriptionEn  string `db:"seo_description_en"  json:"seoDescriptionEn,omitempty"`

	ProcessingStatus ProcessingStatus `db:"processing_status" json:"processingStatus"`
	ScheduledAt      *time.Time       `db:"scheduled_at"      json:"scheduledAt,omitempty"`
	CreatedAt        time.Time        `db:"created_at"        json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at"        json:"updatedAt"`
}

// GeneratedContent: результат генерации, записывается в статью целиком.
type GeneratedContent struct {
	MarkdownContent string `json:"markdownContent"`
	LinkedinTeaser  string `json:"linkedinTeaser"`
	XingSummary     string `json:"xingSummary"`
	SeoTitle        string `json:"seoTitle"`
	SeoDescription  string `json:"seoDescription"`
	Slug            string `json:"slug"`
	Category        string `json:"category"`
	RawTranscript   string `json:"rawTranscript"`
}

// Translation: англоязычные варианты полей статьи.
type Translation struct {
	Title           string `json:"title"`
	MarkdownContent string `json:"markdownContent"`
	LinkedinTeaser  string `json:"linkedinTeaser"`
	XingSummary     string `json:"xingSummary"`
	SeoTitle        string `json:"seoTitle"`
	SeoDescription  string `json:"seoDescription"`
}

// ArticlePatch: частичное обновление. nil означает «не трогать».
type ArticlePatch struct {
	Title           *string
	Slug            *string
	MarkdownContent *string
	LinkedinTeaser  *string
	XingSummary     *string
	SeoTitle        *string
	SeoDescription  *string
	Category        *string
	OgImageURL      *string

	TitleEn           *string
	MarkdownContentEn *string
	LinkedinTeaserEn  *string
	XingSummaryEn     *string
	SeoTitleEn        *string
	SeoDescriptionEn  *string

	ScheduledAt   *time.Time
	ClearSchedule bool
}

func (p ArticlePatch) Empty() bool {
	return p == ArticlePatch{}
}

// swagger:model CreateArticleRequest
type CreateArticleRequest struct {
	URL   string     `json:"url"   validate:"required,url"                  example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Type  SourceType `json:"type"  validate:"required,oneof=YOUTUBE MEDIUM" example:"YOUTUBE"`
	Title string     `json:"title" validate:"max=255"                       example:"Go im Backend"`
}

// swagger:model UpdateArticleRequest
type UpdateArticleRequest struct {
	Title           *string `json:"title,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	MarkdownContent *string `json:"markdownContent,omitempty"`
	LinkedinTeaser  *string `json:"linkedinTeaser,omitempty"`
	XingSummary     *string `json:"xingSummary,omitempty"`
	SeoTitle        *string `json:"seoTitle,omitempty"`
	SeoDescription  *string `json:"seoDescription,omitempty"`
	Category        *string `json:"category,omitempty"`
	OgImageURL      *string `json:"ogImageUrl,omitempty"`

	TitleEn           *string `json:"titleEn,omitempty"`
	MarkdownContentEn *string `json:"markdownContentEn,omitempty"`
	LinkedinTeaserEn  *string `json:"linkedinTeaserEn,omitempty"`
	XingSummaryEn     *string `json:"xingSummaryEn,omitempty"`
	SeoTitleEn        *string `json:"seoTitleEn,omitempty"`
	SeoDescriptionEn  *string `json:"seoDescriptionEn,omitempty"`

	// SCHEDULED | DRAFT | PUBLISHED
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=SCHEDULED DRAFT PUBLISHED"`
	ScheduledAt *string `json:"scheduledAt,omitempty" example:"2026-01-02T09:00:00Z"`
}

// ArticleDetails: статья вместе с публикациями и доступными платформами.
type ArticleDetails struct {
	*Article
	Publications       []*Publication       `json:"publications"`
	AvailablePlatforms []PlatformDescriptor `json:"availablePlatforms"`
}

type ShareLinks struct {
	URL      string `json:"url"`
	LinkedIn string `json:"linkedin"`
	Xing     string `json:"xing"`
}
