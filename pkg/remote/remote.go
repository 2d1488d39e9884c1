// Package remote syncs the shortcut store with a hosted single-document
// JSON blob shared between machines. There is no coordination between
// writers: the last push wins.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// ErrNoRecord is returned by Pull when the remote document holds no record.
var ErrNoRecord = errors.New("remote store contains no record")

// Config addresses the remote blob.
type Config struct {
	// BinURL is the full URL of the hosted JSON document.
	BinURL string

	// MasterKey is the secret sent as the X-Master-Key header.
	MasterKey string

	// Timeout bounds each request. Defaults to 30 seconds.
	Timeout time.Duration
}

// Client performs one-shot pull and push operations against the remote
// store.
type Client struct {
	binURL     string
	masterKey  string
	httpClient *http.Client
	log        arbor.ILogger
}

// NewClient creates a remote sync client.
func NewClient(cfg Config, log arbor.ILogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		binURL:    cfg.BinURL,
		masterKey: cfg.MasterKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// pullEnvelope is the GET response wrapper used by jsonbin-style services.
type pullEnvelope struct {
	Record json.RawMessage `json:"record"`
}

// Pull fetches the remote record and overwrites the local store file with
// it. An absent record is an error and leaves local state untouched.
func (c *Client) Pull(ctx context.Context, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.binURL, nil)
	if err != nil {
		return fmt.Errorf("create pull request: %w", err)
	}
	req.Header.Set("X-Master-Key", c.masterKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pull remote store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read pull response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("remote pull rejected")
		return fmt.Errorf("pull remote store: HTTP %d", resp.StatusCode)
	}

	var envelope pullEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode pull response: %w", err)
	}
	if len(envelope.Record) == 0 || string(envelope.Record) == "null" {
		return ErrNoRecord
	}

	// Normalize through the store type so the on-disk form matches what a
	// local commit would write.
	st, err := store.Parse(envelope.Record)
	if err != nil {
		return fmt.Errorf("remote record: %w", err)
	}
	data, err := st.MarshalIndent()
	if err != nil {
		return err
	}

	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}

	c.log.Info().Int("categories", st.Len()).Int("entries", st.EntryCount()).Msg("pulled remote store")
	return nil
}

// Push reads the local store file and uploads it, replacing the remote
// record entirely.
func (c *Client) Push(ctx context.Context, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read local store: %w", err)
	}

	// Refuse to replace the shared record with something unparseable.
	if _, err := store.Parse(data); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", c.binURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", c.masterKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push local store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("remote push rejected")
		return fmt.Errorf("push local store: HTTP %d", resp.StatusCode)
	}

	c.log.Info().Str("path", localPath).Msg("pushed local store to remote")
	return nil
}
