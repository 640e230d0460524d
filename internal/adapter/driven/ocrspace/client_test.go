package ocrspace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

func TestParseImageSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "key-123", r.Header.Get("apikey"))
		assert.Equal(t, "eng", r.FormValue("language"))
		assert.True(t, strings.HasPrefix(r.FormValue("base64Image"), "data:image/jpeg;base64,aGVsbG8="))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ParsedResults": [{"ParsedText": "Name: John Doe\nGender: M"}],
			"IsErroredOnProcessing": false
		}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoint(srv.Client(), srv.URL)

	text, err := client.ParseImage(context.Background(), driven.OCRRequest{
		APIKey:      "key-123",
		ImageBase64: "aGVsbG8=",
		Filename:    "cv1.jpg",
		Language:    "eng",
	})
	require.NoError(t, err)
	assert.Equal(t, "Name: John Doe\nGender: M", text)
}

func TestParseImageJoinsMultiplePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ParsedResults": [{"ParsedText": "page one"}, {"ParsedText": "page two"}]}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoint(srv.Client(), srv.URL)

	text, err := client.ParseImage(context.Background(), driven.OCRRequest{APIKey: "k", ImageBase64: "x", Language: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "page one\npage two", text)
}

func TestParseImageProcessingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"ParsedResults": [],
			"IsErroredOnProcessing": true,
			"ErrorMessage": ["Invalid API key", "Contact support"]
		}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoint(srv.Client(), srv.URL)

	_, err := client.ParseImage(context.Background(), driven.OCRRequest{APIKey: "bad", ImageBase64: "x", Language: "eng"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestParseImageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClientWithEndpoint(srv.Client(), srv.URL)

	_, err := client.ParseImage(context.Background(), driven.OCRRequest{APIKey: "k", ImageBase64: "x", Language: "eng"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestParseImageEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ParsedResults": [], "IsErroredOnProcessing": false}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoint(srv.Client(), srv.URL)

	_, err := client.ParseImage(context.Background(), driven.OCRRequest{APIKey: "k", ImageBase64: "x", Language: "eng"})
	require.Error(t, err)
}
