package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestUploader(t *testing.T, handler http.HandlerFunc) Uploader {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	uploader, err := NewHTTPUploader(Config{
		BaseURL:   server.URL,
		CloudName: "campus",
		APIKey:    "key",
		APISecret: "secret",
	})
	require.NoError(t, err)
	return uploader
}

func TestUploadReturnsHostedURL(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/campus/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "profiles", r.FormValue("folder"))

		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://img.example.com/campus/image/upload/v1712/profiles/pic.png",
		})
	})

	url, err := uploader.Upload(context.Background(), strings.NewReader("fake-bytes"), "pic.png", "profiles")
	require.NoError(t, err)
	require.Equal(t, "https://img.example.com/campus/image/upload/v1712/profiles/pic.png", url)
}

func TestUploadSurfacesUpstreamError(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid image"},
		})
	})

	_, err := uploader.Upload(context.Background(), strings.NewReader("x"), "pic.png", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid image")
}

func TestDeleteResolvesPublicID(t *testing.T) {
	var gotPublicID string
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/campus/image/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotPublicID = r.FormValue("public_id")
		w.WriteHeader(http.StatusOK)
	})

	err := uploader.Delete(context.Background(), "https://img.example.com/campus/image/upload/v1712/profiles/pic.png")
	require.NoError(t, err)
	require.Equal(t, "profiles/pic", gotPublicID)
}

func TestDeleteIgnoresUnknownURLs(t *testing.T) {
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	require.NoError(t, uploader.Delete(context.Background(), "https://example.com/not-hosted.png"))
	require.NoError(t, uploader.Delete(context.Background(), ""))
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://h/c/image/upload/v123/folder/name.png": "folder/name",
		"https://h/c/image/upload/folder/name.jpg":      "folder/name",
		"https://h/c/image/upload/v123/name.webp":       "name",
		"https://h/no-upload-segment/name.png":          "",
		"": "",
	}
	for input, want := range cases {
		require.Equal(t, want, PublicIDFromURL(input), input)
	}
}
