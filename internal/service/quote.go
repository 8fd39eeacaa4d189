package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/solenne/boutique/internal/core"
)

// quoteCacheKeyPrefix namespaces oracle quotes in the shared cache.
const quoteCacheKeyPrefix = "quote:"

// QuoteServiceOptions groups dependencies for QuoteService.
type QuoteServiceOptions struct {
	Source   core.QuoteSource
	Cache    core.CacheRepository
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// QuoteService serves spot quotes for precious-metal symbols, caching oracle
// responses so the storefront ticker does not hammer the upstream.
type QuoteService struct {
	source   core.QuoteSource
	cache    core.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewQuoteService constructs a new QuoteService.
func NewQuoteService(opts QuoteServiceOptions) *QuoteService {
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteService{
		source:   opts.Source,
		cache:    opts.Cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

type cachedQuote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// Quote returns the spot price for a symbol, serving from cache when fresh.
// Cache failures fall through to the oracle; only oracle failures surface.
func (s *QuoteService) Quote(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, errors.New("symbol is required")
	}

	key := quoteCacheKeyPrefix + symbol
	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "quote cache read failed", "symbol", symbol, "error", err)
		} else if data != nil {
			var cached cachedQuote
			if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr == nil {
				return cached.Price, nil
			}
			// A corrupt entry is dropped and refetched.
			if _, delErr := s.cache.Delete(ctx, key); delErr != nil {
				s.logger.WarnContext(ctx, "quote cache cleanup failed", "symbol", symbol, "error", delErr)
			}
		}
	}

	price, err := s.source.Quote(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("oracle quote: %w", err)
	}

	if s.cache != nil {
		data, marshalErr := json.Marshal(cachedQuote{Symbol: symbol, Price: price, AsOf: time.Now().UTC()})
		if marshalErr == nil {
			if setErr := s.cache.Set(ctx, key, data, s.cacheTTL); setErr != nil {
				s.logger.WarnContext(ctx, "quote cache write failed", "symbol", symbol, "error", setErr)
			}
		}
	}

	return price, nil
}
