package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

// maxRemoteBytes bounds a fetched dataset document.
const maxRemoteBytes = 32 << 20

var (
	ErrOutsideBase     = errors.New("data: dataset URL is outside the import base")
	ErrDatasetTooLarge = errors.New("data: dataset document too large")
)

// RemoteClient fetches dataset documents published over HTTP, e.g. an
// export job dropping the budget workbook's tables into object storage.
type RemoteClient struct {
	Token  string
	Client *http.Client
	Logger *slog.Logger
	// Base, when set, confines fetches to its scheme, host and path prefix.
	// URLs outside it are refused before any request is made.
	Base *url.URL
	// MaxBytes bounds the document size; zero means 32 MiB.
	MaxBytes int64
}

func NewRemoteClient(token string, logger *slog.Logger) *RemoteClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RemoteClient{
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger,
	}
}

// ParseBase validates an import base URL: http(s), with a host. The path is
// treated as a directory.
func ParseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid import base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid import base URL %q: want http(s)://host/path", raw)
	}
	p := path.Clean("/" + u.Path)
	if p != "/" {
		p += "/"
	}
	u.Path, u.RawPath = p, ""
	u.RawQuery, u.Fragment, u.User = "", "", nil
	return u, nil
}

// within reports whether u is under base.
func within(base, u *url.URL) bool {
	if !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) || u.User != nil {
		return false
	}
	p := path.Clean("/" + u.Path)
	return strings.HasPrefix(p+"/", base.Path)
}

// RemoteError is a non-200 answer from the dataset host.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsRemote reports whether src names an http(s) location rather than a file.
func IsRemote(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads and decodes the dataset at rawURL. The format follows the
// URL path's extension; anything other than .yaml/.yml is read as JSON.
func (c *RemoteClient) Fetch(ctx context.Context, rawURL string) (*model.Dataset, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset URL: %w", err)
	}
	if c.Base != nil && !within(c.Base, u) {
		c.Logger.Warn("dataset fetch refused", slog.String("host", u.Host), slog.String("path", u.Path))
		return nil, fmt.Errorf("%w: %s", ErrOutsideBase, u.Redacted())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.Logger.Warn("dataset fetch failed", slog.String("host", u.Host), slog.Duration("duration", duration), slog.Any("error", err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.Logger.Info("dataset fetched",
		slog.String("host", u.Host),
		slog.String("path", u.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "dataset host rejected the credentials",
		}
	case http.StatusNotFound:
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "NOT_FOUND",
			Message:    fmt.Sprintf("no dataset at %s", u.Path),
		}
	default:
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Code:       "REMOTE_ERROR",
			Message:    fmt.Sprintf("dataset host returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = maxRemoteBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrDatasetTooLarge, limit)
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".yaml", ".yml":
		return DecodeDatasetYAML(raw)
	}
	return DecodeDataset(raw)
}

// Open loads a dataset from a file path or an http(s) URL.
func Open(ctx context.Context, src string, remote *RemoteClient) (*model.Dataset, error) {
	if IsRemote(src) {
		if remote == nil {
			remote = NewRemoteClient("", nil)
		}
		return remote.Fetch(ctx, src)
	}
	return LoadDataset(src)
}
