package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// defaultTimeout bounds a single recognition call when the caller's context
// carries no deadline. Vision models on CPU are slow; five minutes matches
// what the larger open models need.
const defaultTimeout = 5 * time.Minute

// Client is a Recognizer backed by an Ollama-served vision model.
type Client struct {
	client *api.Client
	model  string
}

// NewClient connects to the Ollama server at rawURL (scheme and host are
// used; any path is ignored) and recognizes regions with the named model.
func NewClient(rawURL, model string) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}

	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return &Client{
		client: api.NewClient(base, http.DefaultClient),
		model:  model,
	}, nil
}

// RecognizeText implements Recognizer.
func (c *Client) RecognizeText(ctx context.Context, region image.Image) (string, error) {
	return c.query(ctx, textPrompt, region)
}

// RecognizeFormula implements Recognizer.
func (c *Client) RecognizeFormula(ctx context.Context, region image.Image) (string, error) {
	return c.query(ctx, formulaPrompt, region)
}

func (c *Client) query(ctx context.Context, prompt string, region image.Image) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, region); err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(buf.Bytes())},
			},
		},
		Stream: &stream,
	}

	var reply string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	return cleanReply(reply), nil
}
