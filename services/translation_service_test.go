package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	prefix string
	err    error
	calls  int
}

func (f *fakeProvider) TranslateText(_ context.Context, text, target, source string) (*TranslationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &TranslationResult{Text: f.prefix + text, TargetLanguage: target, SourceLanguage: "auto"}, nil
}

func TestTranslationServiceValidatesTargetTags(t *testing.T) {
	t.Setenv("TRANSLATION_LANGUAGES", "fr, sw,not-a-real-tag!!, es")
	svc := NewTranslationService(&fakeProvider{})
	assert.Equal(t, []string{"fr", "sw", "es"}, svc.TargetLanguages())
}

func TestTranslateTextRejectsInvalidTag(t *testing.T) {
	svc := NewTranslationService(&fakeProvider{})
	_, err := svc.TranslateText(context.Background(), "hello", "!!")
	assert.Error(t, err)
}

func TestTranslateTextSkipsBlankInput(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewTranslationService(provider)

	out, err := svc.TranslateText(context.Background(), "   ", "fr")
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, 0, provider.calls)
}

func TestTranslateFields(t *testing.T) {
	t.Setenv("TRANSLATION_LANGUAGES", "fr,sw")
	provider := &fakeProvider{prefix: "x-"}
	svc := NewTranslationService(provider)

	out, err := svc.TranslateFields(context.Background(), map[string]string{
		"title":   "Health matters",
		"summary": "",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "x-Health matters", out["fr"]["title"])
	assert.Equal(t, "x-Health matters", out["sw"]["title"])
	// Blank fields are not sent to the provider.
	assert.NotContains(t, out["fr"], "summary")
	assert.Equal(t, 2, provider.calls)
}

func TestGoogleProviderDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bonjour", body["q"])
		assert.Equal(t, "fr", body["target"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"translations": []map[string]string{{"translatedText": "hello"}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("TRANSLATION_API_URL", srv.URL)
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "test-key")
	provider := NewGoogleTranslationProvider()

	result, err := provider.TranslateText(context.Background(), "bonjour", "fr", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Text)
	assert.Equal(t, "fr", result.TargetLanguage)
}

func TestGoogleProviderPropagatesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	t.Setenv("TRANSLATION_API_URL", srv.URL)
	provider := NewGoogleTranslationProvider()

	_, err := provider.TranslateText(context.Background(), "bonjour", "fr", "")
	assert.Error(t, err)
}
