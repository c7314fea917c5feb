package wiktionary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexstat/pkg/lexstat/internalerr"
	"github.com/cognicore/lexstat/pkg/lexstat/translate"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_Translate_Success(t *testing.T) {
	t.Parallel()

	body := `{
		"grc": [
			{
				"partOfSpeech": "Noun",
				"language": "Ancient Greek",
				"definitions": [
					{"definition": "<a href=\"/wiki/word\">word</a>, speech"},
					{"definition": "reason,<br>account"},
					{"definition": "  "}
				]
			},
			{
				"partOfSpeech": "Noun",
				"language": "Ancient Greek",
				"definitions": [{"definition": "<i>word</i>, speech"}]
			}
		],
		"el": [{"partOfSpeech": "Noun", "language": "Greek", "definitions": [{"definition": "modern"}]}]
	}`

	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL, Separator: " / "}, newTestLogger())
	glosses, err := p.Translate(context.Background(), "λόγος")
	require.NoError(t, err)

	assert.Equal(t, "/λόγος", gotPath)
	assert.NotEmpty(t, gotUA)
	assert.Equal(t, []string{"word, speech", "reason, / account"}, glosses)
}

func TestProvider_Translate_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, newTestLogger())
	glosses, err := p.Translate(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Nil(t, glosses)
}

func TestProvider_Translate_MissingLanguage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"en":[{"partOfSpeech":"Noun","definitions":[{"definition":"logos"}]}]}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL, Language: "grc"}, newTestLogger())
	glosses, err := p.Translate(context.Background(), "logos")
	require.NoError(t, err)
	assert.Nil(t, glosses)
}

func TestProvider_Translate_ServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, newTestLogger())
	_, err := p.Translate(context.Background(), "λόγος")
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrLookupUnavailable))
	assert.Equal(t, int32(1), calls.Load(), "lookups are not retried")
}

func TestProvider_Translate_BadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL}, newTestLogger())
	_, err := p.Translate(context.Background(), "λόγος")
	assert.ErrorIs(t, err, internalerr.ErrLookupUnavailable)
}

func TestProvider_Translate_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, newTestLogger())
	_, err := p.Translate(context.Background(), "λόγος")
	assert.ErrorIs(t, err, internalerr.ErrLookupUnavailable)
}

func TestProvider_CacheDegradesFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cache := translate.NewCache(NewProvider(Config{BaseURL: srv.URL}, newTestLogger()), nil, newTestLogger())
	for i := 0; i < 3; i++ {
		tr := cache.Get(context.Background(), "λόγος")
		assert.False(t, tr.Found)
	}
	assert.Equal(t, int32(1), calls.Load())
}
