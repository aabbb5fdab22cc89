// Package services contains application services for the tab client.
// This file defines the tab service: listing, downloading, uploading and
// deleting tablature files, plus the public health probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrijs2005/tabclient/internal/client/api"
	"github.com/dmitrijs2005/tabclient/internal/client/models"
	"github.com/dmitrijs2005/tabclient/internal/netx"
)

const (
	tabsEndpoint   = "/api/tabs"
	healthEndpoint = "/api/health"

	// MaxTabSize mirrors the service's upload limit.
	MaxTabSize = 16 << 20
)

// AllowedExtensions lists the tablature formats the service accepts.
var AllowedExtensions = []string{"gp", "gpx", "gp5", "musicxml"}

var (
	ErrUnsupportedTab = errors.New("unsupported tab file type")
	ErrTabTooLarge    = errors.New("tab file exceeds upload limit")
	ErrEmptyID        = errors.New("tab id is required")
)

// Requester is the subset of api.Client the service uses.
type Requester interface {
	Get(ctx context.Context, endpoint string, opts ...api.RequestOption) netx.Outcome
	Post(ctx context.Context, endpoint string, body any, opts ...api.RequestOption) netx.Outcome
	Del(ctx context.Context, endpoint string, opts ...api.RequestOption) netx.Outcome
}

// Health is the body of GET /api/health.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TabService defines the tab operations of the CLI.
//
// Every method except Health sends the session credential; a 401 clears the
// session and comes back as an error matching netx.ErrSessionExpired.
type TabService interface {
	List(ctx context.Context) ([]models.Tab, error)
	Get(ctx context.Context, id string) ([]byte, error)
	Upload(ctx context.Context, path string) (models.Tab, error)
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) (Health, error)
}

type tabService struct {
	r Requester
}

func NewTabService(r Requester) TabService {
	return &tabService{r: r}
}

func (s *tabService) List(ctx context.Context) ([]models.Tab, error) {
	out := s.r.Get(ctx, tabsEndpoint)
	if err := out.Err(); err != nil {
		return nil, err
	}

	var list models.TabList
	if err := out.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode tab list: %w", err)
	}
	return list.Tabs, nil
}

// Get downloads the raw file of tab id.
func (s *tabService) Get(ctx context.Context, id string) ([]byte, error) {
	endpoint, err := tabEndpoint(id)
	if err != nil {
		return nil, err
	}

	out := s.r.Get(ctx, endpoint)
	if err := out.Err(); err != nil {
		return nil, err
	}
	if out.Raw != nil {
		return out.Raw, nil
	}
	return out.Data, nil
}

// Upload sends the file at path as the multipart field "file".
func (s *tabService) Upload(ctx context.Context, path string) (models.Tab, error) {
	name := filepath.Base(path)
	if !allowedTab(name) {
		return models.Tab{}, fmt.Errorf("%w: %s", ErrUnsupportedTab, name)
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Tab{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Tab{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxTabSize {
		return models.Tab{}, fmt.Errorf("%w: %d bytes", ErrTabTooLarge, info.Size())
	}

	form, err := netx.NewFileForm("file", name, f, nil)
	if err != nil {
		return models.Tab{}, err
	}

	out := s.r.Post(ctx, tabsEndpoint, form)
	if err := out.Err(); err != nil {
		return models.Tab{}, err
	}

	var tab models.Tab
	if err := out.Decode(&tab); err != nil {
		return models.Tab{}, fmt.Errorf("decode uploaded tab: %w", err)
	}
	return tab, nil
}

func (s *tabService) Delete(ctx context.Context, id string) error {
	endpoint, err := tabEndpoint(id)
	if err != nil {
		return err
	}
	return s.r.Del(ctx, endpoint).Err()
}

func (s *tabService) Health(ctx context.Context) (Health, error) {
	out := s.r.Get(ctx, healthEndpoint, api.WithoutAuth())
	if err := out.Err(); err != nil {
		return Health{}, err
	}

	var h Health
	if err := out.Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health: %w", err)
	}
	return h, nil
}

func tabEndpoint(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyID
	}
	return tabsEndpoint + "/" + url.PathEscape(id), nil
}

func allowedTab(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return slices.Contains(AllowedExtensions, ext)
}
