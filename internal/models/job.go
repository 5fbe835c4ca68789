package models

import "time"

// GenerationJob: задача «сгенерировать контент для статьи».
type GenerationJob struct {
	ArticleID  string     `json:"articleId"`
	SourceType SourceType `json:"sourceType"`
	SourceURL  string     `json:"sourceUrl"`
}

// FeedEntry: статья, у которой есть хотя бы одна живая публикация.
type FeedEntry struct {
	Article     *Article
	PublishedAt time.Time
}
