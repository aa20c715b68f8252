package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/azharstore/storefront-gateway/internal/api"
	"github.com/azharstore/storefront-gateway/internal/redisx"
)

// Source is the upstream slice the catalog reads from; *api.Client satisfies it.
type Source interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	GetProduct(ctx context.Context, id int64) (api.Product, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
}

// Service is a read-through cache over the upstream catalog. Cache failures
// are never fatal: a broken Redis degrades to upstream reads.
type Service struct {
	Source Source
	Cache  redisx.Cache
	TTL    time.Duration
	Logger *slog.Logger
}

func (s *Service) ListProducts(ctx context.Context) ([]api.Product, error) {
	var cached []api.Product
	if s.lookup(ctx, redisx.KeyProductList, &cached) {
		return cached, nil
	}
	ps, err := s.Source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, redisx.KeyProductList, ps)
	return ps, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (api.Product, error) {
	key := fmt.Sprintf(redisx.KeyProduct, id)
	var cached api.Product
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}
	p, err := s.Source.GetProduct(ctx, id)
	if err != nil {
		return api.Product{}, err
	}
	s.store(ctx, key, p)
	return p, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]api.Category, error) {
	var cached []api.Category
	if s.lookup(ctx, redisx.KeyCategories, &cached) {
		return cached, nil
	}
	cs, err := s.Source.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, redisx.KeyCategories, cs)
	return cs, nil
}

// InvalidateProduct drops the detail entry and the list; called after admin
// writes so the storefront never serves a stale edit past the write.
func (s *Service) InvalidateProduct(ctx context.Context, id int64) {
	s.drop(ctx, fmt.Sprintf(redisx.KeyProduct, id), redisx.KeyProductList)
}

func (s *Service) InvalidateProducts(ctx context.Context) {
	s.drop(ctx, redisx.KeyProductList)
}

func (s *Service) InvalidateCategories(ctx context.Context) {
	s.drop(ctx, redisx.KeyCategories)
}

// Warm prefetches the list endpoints concurrently at startup. Failures are
// logged, not fatal — the first request will fill the cache instead.
func (s *Service) Warm(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.ListProducts(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.ListCategories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log().Warn("catalog warm-up incomplete", "error", err)
	}
}

func (s *Service) lookup(ctx context.Context, key string, out any) bool {
	if s.Cache == nil {
		return false
	}
	b, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisx.ErrCacheMiss) {
			s.log().Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.log().Warn("cache entry unreadable, dropping", "key", key, "error", err)
		s.drop(ctx, key)
		return false
	}
	return true
}

func (s *Service) store(ctx context.Context, key string, v any) {
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, b, s.TTL); err != nil {
		s.log().Warn("cache set failed", "key", key, "error", err)
	}
}

func (s *Service) drop(ctx context.Context, keys ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, keys...); err != nil {
		s.log().Warn("cache del failed", "keys", keys, "error", err)
	}
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
