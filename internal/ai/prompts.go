package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Prompts struct {
	Generation  string `yaml:"generation"`
	Translation string `yaml:"translation"`
}

const defaultGenerationPrompt = `Du bist ein erfahrener Content-Marketer und Fachredakteur.
Aus dem folgenden Rohtext (Video-Transkript oder Artikel) erstellst du einen eigenständigen,
SEO-optimierten Fachartikel auf Deutsch in Markdown sowie Begleittexte für soziale Netzwerke.

Antworte ausschließlich mit einem JSON-Objekt ohne weiteren Text:
{
  "markdownContent": "vollständiger Artikel in Markdown mit Zwischenüberschriften",
  "linkedinTeaser": "LinkedIn-Post, max. 1300 Zeichen, mit Call-to-Action",
  "xingSummary": "kurze sachliche Zusammenfassung für XING, max. 420 Zeichen",
  "seoTitle": "SEO-Titel, max. 60 Zeichen",
  "seoDescription": "Meta-Description, max. 155 Zeichen",
  "slug": "url-slug-in-kleinbuchstaben-mit-bindestrichen",
  "category": "eine Kategorie, z. B. Technologie, Business, Marketing",
  "rawTranscript": "der bereinigte Rohtext"
}`

const defaultTranslationPrompt = `You are a professional translator for marketing and technical content.
Translate the German article fields you receive into natural, idiomatic English.
Keep Markdown formatting, links and code blocks unchanged.

Answer only with a JSON object without any other text:
{
  "title": "...",
  "markdownContent": "...",
  "linkedinTeaser": "...",
  "xingSummary": "...",
  "seoTitle": "...",
  "seoDescription": "..."
}`

func DefaultPrompts() Prompts {
	return Prompts{Generation: defaultGenerationPrompt, Translation: defaultTranslationPrompt}
}

// LoadPrompts читает YAML с переопределениями. При пустом path берутся встроенные промпты.
func LoadPrompts(path string) (Prompts, error) {
	p := DefaultPrompts()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("чтение промптов: %w", err)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return p, fmt.Errorf("разбор промптов %s: %w", path, err)
	}
	if override.Generation != "" {
		p.Generation = override.Generation
	}
	if override.Translation != "" {
		p.Translation = override.Translation
	}
	return p, nil
}
