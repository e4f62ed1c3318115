package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facturia/invoice-ocr/internal/llm"
)

// Generate implements llm.Generator over chat/completions. The request's
// parts become one user message; decoding is pinned down as far as the
// backend allows (temperature 0, top_p 1, fixed seed, JSON response mode,
// no streaming) so repeated extractions of the same document stay
// reproducible for audit trails. Bit-reproducibility across model versions
// is not guaranteed by the backend.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	images := 0
	for _, p := range req.Parts {
		if p.IsImage() {
			images++
		}
	}
	c.logger.Info("llm.generate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"seed", c.cfg.Seed,
		"parts", len(req.Parts),
		"images", images,
	)

	content := make([]map[string]any, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsImage() {
			content = append(content, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": p.ImageURL},
			})
		} else {
			content = append(content, map[string]any{
				"type": "text",
				"text": p.Text,
			})
		}
	}

	body := map[string]any{
		"model":                 c.cfg.Model,
		"messages":              []map[string]any{{"role": "user", "content": content}},
		"temperature":           0.0,
		"top_p":                 1.0,
		"seed":                  c.cfg.Seed,
		"max_completion_tokens": c.cfg.MaxTokens,
		"stream":                false,
		"response_format":       map[string]any{"type": "json_object"},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.generate.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.generate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.generate.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in completion response")
	}

	text := cc.Choices[0].Message.Content
	c.logger.Info("llm.generate.ok",
		"req_id", rid,
		"reply_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.logger.Warn("backend response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend status %d: %s", resp.StatusCode, truncate(string(raw), 2<<10))
	}
	return raw, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
