package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn of a conversation sent to the upstream model service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the upstream's answer to a forwarded conversation.
type Reply struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// Forwarder relays a conversation to the model backend and returns its reply.
type Forwarder interface {
	Send(ctx context.Context, messages []Message) (*Reply, error)
}

// HTTPForwarder posts conversations to a configured upstream endpoint.
type HTTPForwarder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPForwarder creates a forwarder for the given upstream.
func NewHTTPForwarder(baseURL, apiKey string, timeout time.Duration) *HTTPForwarder {
	return &HTTPForwarder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *HTTPForwarder) Send(ctx context.Context, messages []Message) (*Reply, error) {
	body, err := json.Marshal(map[string]any{"messages": messages})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat upstream returned %d: %s", resp.StatusCode, snippet)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode chat reply: %w", err)
	}
	return &reply, nil
}
