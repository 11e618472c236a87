// Package report talks to a Gotenberg instance for HTML to PDF printing.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/odyssey-erp/serviceorder/internal/pdf"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("gotenberg unavailable")

// Client wraps interactions with the Gotenberg API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient constructs a new client. A zero timeout keeps the 30s default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gotenberg",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Ping checks if the remote Gotenberg service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderPDF converts a full HTML document into a PDF with the Chromium route.
func (c *Client) RenderPDF(ctx context.Context, html string, opts pdf.PageOptions) ([]byte, error) {
	if c == nil {
		return nil, errors.New("gotenberg client not initialised")
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.convert(ctx, html, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) convert(ctx context.Context, html string, opts pdf.PageOptions) ([]byte, error) {
	body, contentType, err := buildForm(html, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("render failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return io.ReadAll(resp.Body)
}

func buildForm(html string, opts pdf.PageOptions) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	files := []struct{ name, content string }{
		{"index.html", html},
		{"header.html", opts.HeaderHTML},
		{"footer.html", opts.FooterHTML},
	}
	for _, f := range files {
		if f.content == "" {
			continue
		}
		part, err := writer.CreateFormFile("files", f.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.WriteString(part, f.content); err != nil {
			return nil, "", err
		}
	}

	fields := map[string]float64{
		"paperWidth":   opts.PaperWidth,
		"paperHeight":  opts.PaperHeight,
		"marginTop":    opts.MarginTop,
		"marginRight":  opts.MarginRight,
		"marginBottom": opts.MarginBottom,
		"marginLeft":   opts.MarginLeft,
	}
	for name, value := range fields {
		if value <= 0 {
			continue
		}
		if err := writer.WriteField(name, strconv.FormatFloat(value, 'f', 4, 64)); err != nil {
			return nil, "", err
		}
	}
	if err := writer.WriteField("printBackground", "true"); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

var _ pdf.Backend = (*Client)(nil)
