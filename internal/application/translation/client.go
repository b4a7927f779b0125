package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"realty-backend/internal/domain"
)

// Translator translates text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// HTTPTranslator is a Translator backed by a LibreTranslate-compatible API.
type HTTPTranslator struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (c *HTTPTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if c.BaseURL == "" {
		return "", c.fail(fmt.Errorf("TRANSLATE_URL is not set"))
	}
	bodyBytes, err := json.Marshal(translateRequest{Q: text, Source: source, Target: target, Format: "text", APIKey: c.APIKey})
	if err != nil {
		return "", c.fail(err)
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", c.fail(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", c.fail(fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.fail(fmt.Errorf("status %d body: %s", resp.StatusCode, string(respBody)))
	}
	var data translateResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", c.fail(fmt.Errorf("response decode: %w", err))
	}
	if data.Error != "" {
		return "", c.fail(fmt.Errorf("%s", data.Error))
	}
	if strings.TrimSpace(data.TranslatedText) == "" {
		return "", c.fail(fmt.Errorf("empty translation"))
	}
	return data.TranslatedText, nil
}

func (c *HTTPTranslator) fail(err error) error {
	return &domain.ExternalServiceError{Service: "translation", Err: err}
}
