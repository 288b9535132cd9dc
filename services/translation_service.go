package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"youth-health-system/utils"

	"golang.org/x/text/language"
)

// TranslationResult is one translated string.
type TranslationResult struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
}

// TranslationProvider is the boundary to the external translation API.
type TranslationProvider interface {
	TranslateText(ctx context.Context, text, targetLanguage, sourceLanguage string) (*TranslationResult, error)
}

// GoogleTranslationProvider calls the Google Translate v2 REST endpoint
// with API-key auth.
type GoogleTranslationProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewGoogleTranslationProvider() *GoogleTranslationProvider {
	endpoint := os.Getenv("TRANSLATION_API_URL")
	if endpoint == "" {
		endpoint = "https://translation.googleapis.com/language/translate/v2"
	}
	return &GoogleTranslationProvider{
		apiKey:   os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
		endpoint: endpoint,
		client:   utils.HTTPClient,
	}
}

func (p *GoogleTranslationProvider) TranslateText(ctx context.Context, text, targetLanguage, sourceLanguage string) (*TranslationResult, error) {
	body := map[string]interface{}{
		"q":      text,
		"target": targetLanguage,
		"format": "text",
	}
	if sourceLanguage != "" {
		body["source"] = sourceLanguage
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+p.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translation API returned status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(out.Data.Translations) == 0 {
		return nil, fmt.Errorf("translation API returned no translations")
	}

	source := sourceLanguage
	if source == "" {
		source = "auto"
	}
	return &TranslationResult{
		Text:           out.Data.Translations[0].TranslatedText,
		SourceLanguage: source,
		TargetLanguage: targetLanguage,
	}, nil
}

// TranslationService wraps a provider with language-tag validation and the
// configured set of target languages.
type TranslationService struct {
	provider TranslationProvider
	targets  []string
}

// NewTranslationService reads target languages from TRANSLATION_LANGUAGES
// (comma-separated BCP 47 tags, default "fr"); invalid tags are dropped.
func NewTranslationService(provider TranslationProvider) *TranslationService {
	raw := os.Getenv("TRANSLATION_LANGUAGES")
	if raw == "" {
		raw = "fr"
	}
	var targets []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := language.Parse(tag); err != nil {
			continue
		}
		targets = append(targets, tag)
	}
	return &TranslationService{provider: provider, targets: targets}
}

// TargetLanguages returns the configured target language tags.
func (s *TranslationService) TargetLanguages() []string {
	return s.targets
}

func (s *TranslationService) TranslateText(ctx context.Context, text, targetLanguage string) (string, error) {
	if _, err := language.Parse(targetLanguage); err != nil {
		return "", fmt.Errorf("invalid target language %q: %w", targetLanguage, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	result, err := s.provider.TranslateText(ctx, text, targetLanguage, "")
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// TranslateFields translates each non-empty field value into every target
// language. Returned map: language -> field name -> translated text.
func (s *TranslationService) TranslateFields(ctx context.Context, fields map[string]string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(s.targets))
	for _, lang := range s.targets {
		translated := make(map[string]string, len(fields))
		for name, value := range fields {
			if strings.TrimSpace(value) == "" {
				continue
			}
			result, err := s.provider.TranslateText(ctx, value, lang, "")
			if err != nil {
				return nil, fmt.Errorf("failed to translate %s to %s: %w", name, lang, err)
			}
			translated[name] = result.Text
		}
		out[lang] = translated
	}
	return out, nil
}
