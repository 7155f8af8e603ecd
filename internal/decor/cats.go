// Package decor fetches the decorative cat content shown after an order was sent.
package decor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/core"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

const (
	DefaultCatFactURL    = "https://catfact.ninja/fact"
	DefaultCatPictureURL = "https://api.thecatapi.com/v1/images/search"
	DefaultTimeout       = 3 * time.Second

	FallbackCatFact = "No cat fact available"
)

type Config struct {
	CatFactURL    string
	CatPictureURL string
	Timeout       time.Duration
}

type CatDecorator struct {
	client *http.Client
	cfg    Config
	logger *zap.Logger
}

var _ core.Decorator = (*CatDecorator)(nil)

func NewCatDecorator(cfg Config, client *http.Client, logger *zap.Logger) *CatDecorator {
	if cfg.CatFactURL == "" {
		cfg.CatFactURL = DefaultCatFactURL
	}
	if cfg.CatPictureURL == "" {
		cfg.CatPictureURL = DefaultCatPictureURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CatDecorator{client: client, cfg: cfg, logger: logger}
}

// Decorate never fails: anything that cannot be fetched is replaced by its fallback.
func (d *CatDecorator) Decorate(ctx context.Context) model.Decoration {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	decoration := model.Decoration{CatFact: FallbackCatFact}

	var g errgroup.Group
	g.Go(func() error {
		fact, err := d.fetchFact(ctx)
		if err != nil {
			return fmt.Errorf("cat fact: %w", err)
		}
		decoration.CatFact = fact
		return nil
	})
	g.Go(func() error {
		url, err := d.fetchPictureURL(ctx)
		if err != nil {
			return fmt.Errorf("cat picture: %w", err)
		}
		decoration.CatPictureURL = url
		return nil
	})

	if err := g.Wait(); err != nil {
		d.logger.Warn("Failed to fetch decoration", zap.Error(err))
	}

	return decoration
}

func (d *CatDecorator) fetchFact(ctx context.Context) (string, error) {
	var result struct {
		Fact string `json:"fact"`
	}
	if err := d.getJSON(ctx, d.cfg.CatFactURL, &result); err != nil {
		return "", err
	}
	if result.Fact == "" {
		return FallbackCatFact, nil
	}
	return result.Fact, nil
}

func (d *CatDecorator) fetchPictureURL(ctx context.Context) (string, error) {
	var result []struct {
		URL string `json:"url"`
	}
	if err := d.getJSON(ctx, d.cfg.CatPictureURL, &result); err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", nil
	}
	return result[0].URL, nil
}

func (d *CatDecorator) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
