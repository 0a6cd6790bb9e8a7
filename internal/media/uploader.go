package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

// Uploader stores and removes user-submitted images on an external image host.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// Config holds the image-host connection settings.
type Config struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

type httpUploader struct {
	cfg    Config
	client *http.Client
}

// NewHTTPUploader builds an Uploader backed by a Cloudinary-style REST API.
func NewHTTPUploader(cfg Config) (Uploader, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("media: base url is required")
	}
	if strings.TrimSpace(cfg.CloudName) == "" {
		return nil, errors.New("media: cloud name is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &httpUploader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file as multipart form data and returns the hosted URL.
func (u *httpUploader) Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", apperrors.NewUpstream("media", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", apperrors.NewUpstream("media", err)
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return "", apperrors.NewUpstream("media", err)
		}
	}
	if err := writer.WriteField("api_key", u.cfg.APIKey); err != nil {
		return "", apperrors.NewUpstream("media", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.NewUpstream("media", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.cfg.BaseURL, u.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", apperrors.NewUpstream("media", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(u.cfg.APIKey, u.cfg.APISecret)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", apperrors.NewUpstream("media", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.NewUpstream("media", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := result.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", apperrors.NewUpstream("media", errors.New(msg))
	}

	hosted := result.SecureURL
	if hosted == "" {
		hosted = result.URL
	}
	if hosted == "" {
		return "", apperrors.NewUpstream("media", errors.New("upload response missing url"))
	}
	return hosted, nil
}

// Delete removes a previously uploaded image, resolving its public ID from
// the hosted URL. Unknown URLs are ignored.
func (u *httpUploader) Delete(ctx context.Context, fileURL string) error {
	publicID := PublicIDFromURL(fileURL)
	if publicID == "" {
		return nil
	}

	form := url.Values{}
	form.Set("public_id", publicID)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", u.cfg.BaseURL, u.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewUpstream("media", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(u.cfg.APIKey, u.cfg.APISecret)

	resp, err := u.client.Do(req)
	if err != nil {
		return apperrors.NewUpstream("media", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewUpstream("media", errors.New(resp.Status))
	}
	return nil
}

// PublicIDFromURL extracts the image host public ID from a hosted URL. The
// expected shape is .../upload/v<version>/<folder>/<name>.<ext>; everything
// after the version segment, minus the extension, is the public ID.
func PublicIDFromURL(fileURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil || parsed.Path == "" {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	uploadIdx := -1
	for i, segment := range segments {
		if segment == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx == -1 || uploadIdx+1 >= len(segments) {
		return ""
	}

	rest := segments[uploadIdx+1:]
	if len(rest) > 0 && len(rest[0]) > 1 && rest[0][0] == 'v' && isDigits(rest[0][1:]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}

	joined := strings.Join(rest, "/")
	ext := path.Ext(joined)
	return strings.TrimSuffix(joined, ext)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
