package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	RedisURL          string
	QueueName         string
	QueueMaxAttempts  int
	WorkerConcurrency int
	WorkerName        string

	Log      string
	LogLevel string
	Env      string // dev|prod

	AIProvider     string // openai|anthropic
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	PromptsFile    string

	TranscriptAPIURL  string
	TranscriptAPIKey  string
	TranscriptRetries int
	ArticleMirrorURL  string

	LinkedInAPIURL       string
	MediumAPIURL         string
	XingAPIURL           string
	WebhookURL           string
	WebhookAPIKey        string
	PublicArticleBaseURL string

	HTTPTimeout       time.Duration
	ExtractTimeout    time.Duration
	GenerationTimeout time.Duration

	SchedulerInterval time.Duration
	SchedulerPlatform string
	SchedulerLanguage string

	// токены по умолчанию, если вызывающий свой не передал
	LinkedInAccessToken string
	MediumAccessToken   string
	XingAccessToken     string

	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []string // X-Forwarded-For учитываем только от этих адресов

	UploadDir    string
	PublicAPIURL string
	CMSImageURL  string
	CMSToken     string

	FeedTitle       string
	FeedLink        string
	FeedDescription string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	hostname, _ := os.Hostname()

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		RedisURL:   def(os.Getenv("REDIS_URL"), "redis://localhost:6379/0"),
		QueueName:  def(os.Getenv("QUEUE_NAME"), "content-queue"),
		WorkerName: def(os.Getenv("WORKER_NAME"), def(hostname, "worker")),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		AIProvider:     strings.ToLower(def(os.Getenv("AI_PROVIDER"), "openai")),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    def(os.Getenv("OPENAI_MODEL"), "gpt-4o-mini"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: def(os.Getenv("ANTHROPIC_MODEL"), "claude-haiku-4-5"),
		PromptsFile:    os.Getenv("PROMPTS_FILE"),

		TranscriptAPIURL: def(os.Getenv("TRANSCRIPT_API_URL"), "https://api.supadata.ai/v1/youtube/transcript"),
		TranscriptAPIKey: os.Getenv("TRANSCRIPT_API_KEY"),
		ArticleMirrorURL: def(os.Getenv("ARTICLE_MIRROR_URL"), "https://freedium-mirror.cfd/"),

		LinkedInAPIURL:       def(os.Getenv("LINKEDIN_API_URL"), "https://api.linkedin.com"),
		MediumAPIURL:         def(os.Getenv("MEDIUM_API_URL"), "https://api.medium.com"),
		XingAPIURL:           def(os.Getenv("XING_API_URL"), "https://api.xing.com"),
		WebhookURL:           os.Getenv("WEBHOOK_URL"),
		WebhookAPIKey:        os.Getenv("WEBHOOK_API_KEY"),
		PublicArticleBaseURL: strings.TrimRight(def(os.Getenv("PUBLIC_ARTICLE_BASE_URL"), "https://example.com/articles"), "/"),

		SchedulerPlatform:   strings.ToUpper(def(os.Getenv("SCHEDULER_PLATFORM"), "LINKEDIN")),
		SchedulerLanguage:   strings.ToUpper(def(os.Getenv("SCHEDULER_LANGUAGE"), "DE")),
		LinkedInAccessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		MediumAccessToken:   os.Getenv("MEDIUM_ACCESS_TOKEN"),
		XingAccessToken:     os.Getenv("XING_ACCESS_TOKEN"),

		UploadDir:    def(os.Getenv("UPLOAD_DIR"), "uploads"),
		PublicAPIURL: strings.TrimRight(def(os.Getenv("PUBLIC_API_URL"), "http://localhost:8080"), "/"),
		CMSImageURL:  os.Getenv("CONTENT_MANAGEMENT_IMAGE_URL"),
		CMSToken:     os.Getenv("CONTENT_MANAGEMENT_TOKEN"),

		FeedTitle:       def(os.Getenv("FEED_TITLE"), "Content Orchestrator"),
		FeedLink:        def(os.Getenv("FEED_LINK"), "https://example.com"),
		FeedDescription: def(os.Getenv("FEED_DESCRIPTION"), "Neueste Artikel"),
	}

	var err error
	if cfg.QueueMaxAttempts, err = intEnv("QUEUE_MAX_ATTEMPTS", def, 1); err != nil {
		return nil, err
	}
	if cfg.WorkerConcurrency, err = intEnv("WORKER_CONCURRENCY", def, 3); err != nil {
		return nil, err
	}
	if cfg.TranscriptRetries, err = intEnv("TRANSCRIPT_RETRIES", def, 3); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", def, 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(def(os.Getenv("RATE_LIMIT_RPS"), "5"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}

	for _, p := range strings.Split(os.Getenv("TRUSTED_PROXIES"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.TrustedProxies = append(cfg.TrustedProxies, p)
		}
	}

	durations := []struct {
		key string
		d   string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", "30s", &cfg.HTTPTimeout},
		{"EXTRACT_TIMEOUT", "2m", &cfg.ExtractTimeout},
		{"GENERATION_TIMEOUT", "10m", &cfg.GenerationTimeout},
		{"SCHEDULER_INTERVAL", "60s", &cfg.SchedulerInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(def(os.Getenv(d.key), d.d))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	return cfg, nil
}

func intEnv(key string, def func(v, d string) string, d int) (int, error) {
	n, err := strconv.Atoi(def(os.Getenv(key), strconv.Itoa(d)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}
	if c.QueueMaxAttempts < 1 {
		return nil, fmt.Errorf("QUEUE_MAX_ATTEMPTS must be >= 1")
	}
	if c.WorkerConcurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be >= 1")
	}

	switch c.AIProvider {
	case "openai":
		if c.OpenAIKey == "" {
			warnings = append(warnings, "OPENAI_API_KEY is empty")
		}
	case "anthropic":
		if c.AnthropicKey == "" {
			warnings = append(warnings, "ANTHROPIC_API_KEY is empty")
		}
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	if c.TranscriptAPIKey == "" {
		warnings = append(warnings, "TRANSCRIPT_API_KEY is empty, YOUTUBE sources will fail")
	}
	if c.WebhookURL == "" || c.WebhookAPIKey == "" {
		warnings = append(warnings, "WEBHOOK_URL/WEBHOOK_API_KEY not set, WEBHOOK publishing will fail")
	}
	if c.SchedulerPlatform == "LINKEDIN" && c.LinkedInAccessToken == "" {
		warnings = append(warnings, "LINKEDIN_ACCESS_TOKEN is empty, scheduled publishing will end in ERROR")
	}

	if c.CMSImageURL == "" || c.CMSToken == "" {
		warnings = append(warnings, "CONTENT_MANAGEMENT_IMAGE_URL/CONTENT_MANAGEMENT_TOKEN not set, local images are published as is")
	}

	// PORT
	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
