package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soltrader-go/internal/ledger"
	"soltrader-go/internal/signal"
)

func TestPricesAppendCapsAndPersists(t *testing.T) {
	ctx := context.Background()
	repo := Prices{Store: openMemory(t)}

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	for i := 0; i < PriceHistoryCapacity+5; i++ {
		_, err := repo.Append(ctx, signal.PriceSample{Price: float64(i), Time: int64(i)})
		require.NoError(t, err)
	}

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, PriceHistoryCapacity, loaded.Len())
	values := loaded.Values()
	assert.Equal(t, 5.0, values[0].Price)
	assert.Equal(t, float64(PriceHistoryCapacity+4), values[len(values)-1].Price)
}

func TestTradesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := Trades{Store: openMemory(t)}

	l, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())

	for i := 0; i < ledger.Capacity+1; i++ {
		l.Record(ledger.TradeRecord{Action: "BUY", Reason: fmt.Sprintf("r%d", i)})
	}
	require.NoError(t, repo.Save(ctx, l))

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	snap := reloaded.Snapshot()
	require.Len(t, snap, ledger.Capacity)
	assert.Equal(t, "r1", snap[0].Reason)
}

func TestLoadJSONDecodeError(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	require.NoError(t, db.Put(ctx, TradesKey, []byte("{not json")))

	_, err := Trades{Store: db}.Load(ctx)
	assert.Error(t, err)
}
