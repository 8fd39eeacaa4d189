package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/solenne/boutique/internal/mocks"
)

type quoteServiceMocks struct {
	source *mocks.MockQuoteSource
	cache  *mocks.MockCacheRepository
}

func newQuoteService(t *testing.T) (quoteServiceMocks, *QuoteService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := quoteServiceMocks{
		source: mocks.NewMockQuoteSource(ctrl),
		cache:  mocks.NewMockCacheRepository(ctrl),
	}
	svc := NewQuoteService(QuoteServiceOptions{
		Source:   m.source,
		Cache:    m.cache,
		CacheTTL: time.Minute,
	})
	return m, svc
}

func TestQuoteService_Quote_CacheMissFetchesAndStores(t *testing.T) {
	t.Parallel()

	m, svc := newQuoteService(t)
	ctx := context.Background()

	m.cache.EXPECT().Get(ctx, "quote:XAU").Return(nil, nil)
	m.source.EXPECT().Quote(ctx, "XAU").Return(2412.50, nil)
	m.cache.EXPECT().Set(ctx, "quote:XAU", gomock.Any(), time.Minute).DoAndReturn(
		func(_ context.Context, _ string, data []byte, _ time.Duration) error {
			var cached cachedQuote
			require.NoError(t, json.Unmarshal(data, &cached))
			assert.Equal(t, "XAU", cached.Symbol)
			assert.Equal(t, 2412.50, cached.Price)
			return nil
		})

	price, err := svc.Quote(ctx, "XAU")

	require.NoError(t, err)
	assert.Equal(t, 2412.50, price)
}

func TestQuoteService_Quote_CacheHitSkipsOracle(t *testing.T) {
	t.Parallel()

	m, svc := newQuoteService(t)
	ctx := context.Background()

	data, err := json.Marshal(cachedQuote{Symbol: "XAG", Price: 31.20, AsOf: time.Now().UTC()})
	require.NoError(t, err)
	m.cache.EXPECT().Get(ctx, "quote:XAG").Return(data, nil)

	price, err := svc.Quote(ctx, "XAG")

	require.NoError(t, err)
	assert.Equal(t, 31.20, price)
}

func TestQuoteService_Quote_CacheFailureFallsThrough(t *testing.T) {
	t.Parallel()

	m, svc := newQuoteService(t)
	ctx := context.Background()

	m.cache.EXPECT().Get(ctx, "quote:XAU").Return(nil, errors.New("redis down"))
	m.source.EXPECT().Quote(ctx, "XAU").Return(2412.50, nil)
	m.cache.EXPECT().Set(ctx, "quote:XAU", gomock.Any(), time.Minute).Return(errors.New("redis down"))

	price, err := svc.Quote(ctx, "XAU")

	// Cache trouble never surfaces; the oracle result does.
	require.NoError(t, err)
	assert.Equal(t, 2412.50, price)
}

func TestQuoteService_Quote_CorruptCacheEntryIsDropped(t *testing.T) {
	t.Parallel()

	m, svc := newQuoteService(t)
	ctx := context.Background()

	m.cache.EXPECT().Get(ctx, "quote:XPT").Return([]byte("{not json"), nil)
	m.cache.EXPECT().Delete(ctx, "quote:XPT").Return(true, nil)
	m.source.EXPECT().Quote(ctx, "XPT").Return(990.0, nil)
	m.cache.EXPECT().Set(ctx, "quote:XPT", gomock.Any(), time.Minute).Return(nil)

	price, err := svc.Quote(ctx, "XPT")

	require.NoError(t, err)
	assert.Equal(t, 990.0, price)
}

func TestQuoteService_Quote_OracleFailureSurfaces(t *testing.T) {
	t.Parallel()

	m, svc := newQuoteService(t)
	ctx := context.Background()

	m.cache.EXPECT().Get(ctx, "quote:XAU").Return(nil, nil)
	m.source.EXPECT().Quote(ctx, "XAU").Return(0.0, errors.New("oracle timeout"))

	_, err := svc.Quote(ctx, "XAU")
	assert.Error(t, err)
}

func TestQuoteService_Quote_RequiresSymbol(t *testing.T) {
	t.Parallel()

	_, svc := newQuoteService(t)

	_, err := svc.Quote(context.Background(), "")
	assert.Error(t, err)
}
