package insight

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/stockinsight/market"
)

type memCache struct {
	mu      sync.Mutex
	m       map[Key]Result
	gets    int
	puts    int
	failGet bool
}

func newMemCache() *memCache { return &memCache{m: make(map[Key]Result)} }

func (c *memCache) Get(_ context.Context, k Key) (Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errors.New("boom")
	}
	r, ok := c.m[k]
	return r, ok, nil
}

func (c *memCache) Put(_ context.Context, k Key, r Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.m[k] = r
	return nil
}

func TestServiceRun(t *testing.T) {
	t.Parallel()

	svc := NewService(multiYearTable())
	out, err := svc.Run(context.Background(), Selection{Year: 2020, Kind: TopN, N: 2})
	require.NoError(t, err)

	assert.False(t, out.Empty)
	assert.Equal(t, 3, out.Records)
	assert.Equal(t, 2, out.Result.Len())
	assert.Equal(t, TopN, out.Result.Kind())
}

func TestServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := NewService(multiYearTable())

	out, err := svc.Run(context.Background(), Selection{Year: 2020, Kind: TopN})
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, out.Selection.N)

	out, err = svc.Run(context.Background(), Selection{Year: 2020, Kind: Volume, N: 9})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Selection.N)

	lo, hi := svc.YearBounds()
	assert.Equal(t, MinYear, lo)
	assert.Equal(t, MaxYear, hi)
}

func TestServiceEmptyYear(t *testing.T) {
	t.Parallel()

	svc := NewService(multiYearTable())
	for _, k := range Kinds {
		out, err := svc.Run(context.Background(), Selection{Year: 2005, Kind: k})
		require.NoError(t, err)
		assert.True(t, out.Empty)
		assert.Equal(t, MsgNoData, out.Message)
		assert.Nil(t, out.Result)
	}
}

func TestServiceInsufficientCorrelation(t *testing.T) {
	t.Parallel()

	// 2021 holds a single record.
	svc := NewService(multiYearTable())
	out, err := svc.Run(context.Background(), Selection{Year: 2021, Kind: Correlation})
	require.NoError(t, err)
	assert.True(t, out.Empty)
	assert.Equal(t, 1, out.Records)
	assert.Equal(t, MsgInsufficientData, out.Message)
}

func TestServiceRejectsBadSelection(t *testing.T) {
	t.Parallel()

	svc := NewService(multiYearTable())

	_, err := svc.Run(context.Background(), Selection{Year: 1999, Kind: Volume})
	assert.ErrorIs(t, err, ErrYearOutOfRange)

	_, err = svc.Run(context.Background(), Selection{Year: 2020, Kind: Kind(0)})
	assert.ErrorIs(t, err, ErrUnknownKind)

	wide := NewService(multiYearTable(), WithYearBounds(1990, 2050))
	out, err := wide.Run(context.Background(), Selection{Year: 2030, Kind: Volume})
	require.NoError(t, err)
	assert.True(t, out.Empty)
}

func TestServiceCache(t *testing.T) {
	t.Parallel()

	cache := newMemCache()
	svc := NewService(multiYearTable(), WithCache(cache))
	sel := Selection{Year: 2020, Kind: DailyRange}

	first, err := svc.Run(context.Background(), sel)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.puts)

	second, err := svc.Run(context.Background(), sel)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, cache.puts)

	_, ok := cache.m[Key{Fingerprint: "fp", Year: 2020, Kind: DailyRange}]
	assert.True(t, ok)
}

func TestServiceCacheFailureFallsBack(t *testing.T) {
	t.Parallel()

	cache := newMemCache()
	cache.failGet = true
	svc := NewService(multiYearTable(), WithCache(cache))

	out, err := svc.Run(context.Background(), Selection{Year: 2020, Kind: ClosingTrend})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, 3, out.Result.Len())
}

func TestServiceConcurrent(t *testing.T) {
	t.Parallel()

	svc := NewService(multiYearTable(), WithCache(newMemCache()))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := Kinds[i%len(Kinds)]
			_, err := svc.Run(context.Background(), Selection{Year: 2020, Kind: k})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 7, svc.Table().Len())
}

func TestServiceEmptyTable(t *testing.T) {
	t.Parallel()

	svc := NewService(market.NewPriceTable("", "", nil))
	out, err := svc.Run(context.Background(), Selection{Year: 2020, Kind: TopN})
	require.NoError(t, err)
	assert.True(t, out.Empty)
}
