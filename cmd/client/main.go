// Command client is a small REST client for the notes API, mostly used
// to seed a local server: register or log in, then bulk-import notes
// from a JSON export file.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	var (
		addr     = flag.String("addr", "http://127.0.0.1:8080", "server base URL")
		email    = flag.String("email", "", "account email")
		password = flag.String("password", "", "account password")
		name     = flag.String("name", "", "account name (register only)")
		file     = flag.String("file", "", "JSON file with notes to import")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	if err := slogx.InitGlobal(os.Stdout, "info", true); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: client [flags] register|login|import")
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("-email and -password are required")
	}

	c := &client{baseURL: *addr, http: &http.Client{Timeout: 30 * time.Second}}

	switch cmd := flag.Arg(0); cmd {
	case "register":
		return c.register(ctx, *email, *password, *name)
	case "login":
		_, err := c.login(ctx, *email, *password)
		return err
	case "import":
		if *file == "" {
			return fmt.Errorf("-file is required for import")
		}

		token, err := c.login(ctx, *email, *password)
		if err != nil {
			return err
		}

		return c.importNotes(ctx, token, *file)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type client struct {
	baseURL string
	http    *http.Client
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *client) register(ctx context.Context, email, password, name string) error {
	resp, err := c.post(ctx, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return err
	}

	slogx.Info(ctx, "registered", slog.String("email", email), slog.String("message", resp.Message))
	return nil
}

func (c *client) login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.post(ctx, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("decode login data: %v", err)
	}

	slogx.Info(ctx, "logged in", slog.String("email", email))
	return data.Token, nil
}

func (c *client) importNotes(ctx context.Context, token, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %v", err)
	}

	// Accept either a bare array of notes or the full {"notes": [...]}
	// request shape.
	var batch struct {
		Notes []json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(raw, &batch); err != nil || batch.Notes == nil {
		if err := json.Unmarshal(raw, &batch.Notes); err != nil {
			return fmt.Errorf("parse import file: %v", err)
		}
	}

	resp, err := c.post(ctx, "/api/notes/import", token, map[string]any{"notes": batch.Notes})
	if err != nil {
		return err
	}

	var result struct {
		Total    int `json:"total"`
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
		Errors   []struct {
			Index int    `json:"index"`
			Title string `json:"title"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("decode import result: %v", err)
	}

	slogx.Info(ctx, "import finished",
		slog.Int("total", result.Total),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed),
	)
	for _, e := range result.Errors {
		slogx.Warn(ctx, "item skipped",
			slog.Int("index", e.Index),
			slog.String("title", e.Title),
			slog.String("reason", e.Error),
		)
	}

	return nil
}

func (c *client) post(ctx context.Context, path, token string, body any) (apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apiResponse{}, fmt.Errorf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("POST %s: %v", path, err)
	}
	defer httpResp.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return apiResponse{}, fmt.Errorf("decode response from %s: %v", path, err)
	}
	if !resp.Success {
		return apiResponse{}, fmt.Errorf("%s: server said %q (status %d)", path, resp.Message, httpResp.StatusCode)
	}

	return resp, nil
}
