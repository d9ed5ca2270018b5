package catalogimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/orgball2608/insta-stories-viewer/internal/catalog"
	"github.com/orgball2608/insta-stories-viewer/internal/domain"
	"github.com/orgball2608/insta-stories-viewer/internal/repositories/users"
	"github.com/orgball2608/insta-stories-viewer/pkg/config"
	"github.com/orgball2608/insta-stories-viewer/pkg/logger"
	"github.com/orgball2608/insta-stories-viewer/pkg/retry"
	"go.uber.org/fx"
)

const maxCatalogBytes = 16 << 20

type SourceOpts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Users  users.Repository `optional:"true"`
}

// NewSource picks the source named by CATALOG_SOURCE.
func NewSource(opts SourceOpts) (catalog.Source, error) {
	log := opts.Logger.WithComponent("CatalogSource")
	cfg := opts.Config.Catalog

	switch cfg.Source {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.URL, &http.Client{Timeout: loadTimeout}, log, retry.DefaultConfig()), nil
	case config.SourcePostgres:
		if opts.Users == nil {
			return nil, fmt.Errorf("catalog source %q needs the users repository", cfg.Source)
		}
		return NewPostgresSource(opts.Users), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
}

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Load(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return domain.DecodeUsers(data)
}

type HTTPSource struct {
	url    string
	client *http.Client
	logger logger.Logger
	retry  retry.Config
}

func NewHTTPSource(url string, client *http.Client, log logger.Logger, rc retry.Config) *HTTPSource {
	return &HTTPSource{url: url, client: client, logger: log, retry: rc}
}

func (s *HTTPSource) Name() string { return "http:" + s.url }

func (s *HTTPSource) Load(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := retry.Do(ctx, s.logger, "load catalog", func() error {
		body, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		decoded, err := domain.DecodeUsers(body)
		if err != nil {
			return retry.Permanent(err)
		}
		users = decoded
		return nil
	}, s.retry)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to build catalog request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %d", catalog.ErrBadStatus, resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}
	return body, nil
}

type PostgresSource struct {
	repo users.Repository
}

func NewPostgresSource(repo users.Repository) *PostgresSource {
	return &PostgresSource{repo: repo}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}
