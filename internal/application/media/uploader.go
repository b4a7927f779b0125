package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"realty-backend/internal/domain"

	"github.com/google/uuid"
)

// Stored is what the media storage returns for one uploaded file.
type Stored struct {
	StorageID    string
	URL          string
	ThumbnailURL *string
}

// Uploader stores and removes media files in external storage.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, folder string, t domain.MediaType) (*Stored, error)
	Delete(ctx context.Context, storageID string) error
}

// HTTPUploader is an Uploader backed by a CDN upload API.
type HTTPUploader struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type uploadResponse struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
	Name   string `json:"name"`
}

func (c *HTTPUploader) client() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 2 * time.Minute}
	}
	return c.Client
}

func (c *HTTPUploader) Upload(ctx context.Context, r io.Reader, filename, folder string, t domain.MediaType) (*Stored, error) {
	if c.BaseURL == "" {
		return nil, c.fail(fmt.Errorf("MEDIA_BASE_URL is not set"))
	}
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	name := uuid.New().String() + strings.ToLower(path.Ext(filename))
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, c.fail(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, c.fail(err)
	}
	_ = w.WriteField("fileName", name)
	_ = w.WriteField("folder", folder)
	if err := w.Close(); err != nil {
		return nil, c.fail(err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/files/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, c.fail(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetBasicAuth(c.APIKey, "")

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, c.fail(fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(fmt.Errorf("status %d body: %s", resp.StatusCode, string(respBody)))
	}
	var data uploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, c.fail(fmt.Errorf("response decode: %w", err))
	}
	if data.FileID == "" || data.URL == "" {
		return nil, c.fail(fmt.Errorf("no file id in response: %s", string(respBody)))
	}
	out := &Stored{StorageID: data.FileID, URL: data.URL}
	if t == domain.MediaVideo {
		thumb := VideoThumbnailURL(data.URL)
		out.ThumbnailURL = &thumb
	}
	return out, nil
}

func (c *HTTPUploader) Delete(ctx context.Context, storageID string) error {
	if c.BaseURL == "" {
		return c.fail(fmt.Errorf("MEDIA_BASE_URL is not set"))
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/files/" + storageID
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return c.fail(err)
	}
	req.SetBasicAuth(c.APIKey, "")
	resp, err := c.client().Do(req)
	if err != nil {
		return c.fail(fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return c.fail(fmt.Errorf("status %d body: %s", resp.StatusCode, string(b)))
	}
	return nil
}

func (c *HTTPUploader) fail(err error) error {
	return &domain.ExternalServiceError{Service: "media storage", Err: err}
}

// VideoThumbnailURL asks the CDN for a still frame of the video.
func VideoThumbnailURL(videoURL string) string {
	base, query, hasQuery := strings.Cut(videoURL, "?")
	thumb := base + "/ik-thumbnail.jpg?tr=w-480"
	if hasQuery && query != "" {
		thumb += "&" + query
	}
	return thumb
}
