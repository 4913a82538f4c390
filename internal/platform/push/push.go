// Package push delivers device notifications over an FCM-style HTTP
// endpoint. When push is not configured the noop notifier is wired in
// and every send quietly succeeds.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
}

type Noop struct{}

func (Noop) Send(ctx context.Context, token, title, body string) error { return nil }

type Client struct {
	Endpoint  string
	ServerKey string
	HTTP      *http.Client

	// OnSent runs after each accepted delivery. Used to feed the
	// metrics collector without importing it here.
	OnSent func()
}

func NewClient(endpoint, serverKey string) *Client {
	return &Client{
		Endpoint:  endpoint,
		ServerKey: serverKey,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	To           string       `json:"to"`
	Notification notification `json:"notification"`
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *Client) Send(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(message{
		To:           token,
		Notification: notification{Title: title, Body: body},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.ServerKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push endpoint returned %d: %s", resp.StatusCode, string(b))
	}
	if c.OnSent != nil {
		c.OnSent()
	}
	return nil
}
