// file: service/statement_test.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-bankist/format"
	"go-bankist/model"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainFormatter renders values without locale rules so row assertions
// stay readable.
type plainFormatter struct{}

func (plainFormatter) FormatCurrency(amount decimal.Decimal, code, _ string) string {
	return amount.StringFixed(2) + " " + code
}

func (plainFormatter) FormatDate(t time.Time, _ string) string {
	return t.Format("2006-01-02")
}

func (plainFormatter) FormatDateTime(t time.Time, _ string) string {
	return t.Format("2006-01-02 15:04")
}

func (p plainFormatter) RelativeDate(reference, target time.Time, locale string) string {
	return format.RelativeDate(reference, target, locale, p)
}

func aliceAccount() model.Account {
	return model.Account{
		Owner:          "Alice Anders",
		Username:       "aa",
		Movements:      decs("200", "-100"),
		MovementsDates: []time.Time{fixedNow.AddDate(0, 0, -10), fixedNow.AddDate(0, 0, -1)},
		InterestRate:   dec("1.2"),
		Currency:       "EUR",
		Locale:         "pt-PT",
	}
}

func TestComputeSummary(t *testing.T) {
	t.Run("in out and interest", func(t *testing.T) {
		s := ComputeSummary(aliceAccount())
		assert.True(t, s.In.Equal(dec("200")))
		assert.True(t, s.Out.Equal(dec("100")))
		assert.True(t, s.Interest.Equal(dec("2.4")))
	})

	t.Run("interest below one is ignored per deposit", func(t *testing.T) {
		acc := model.Account{
			Movements:    decs("50", "100", "-30"),
			InterestRate: dec("1.2"),
		}
		s := ComputeSummary(acc)
		assert.True(t, s.In.Equal(dec("150")))
		assert.True(t, s.Out.Equal(dec("30")))
		assert.True(t, s.Interest.Equal(dec("1.2")), "got %s", s.Interest)
	})

	t.Run("no movements", func(t *testing.T) {
		s := ComputeSummary(model.Account{InterestRate: dec("1.2")})
		assert.True(t, s.In.IsZero())
		assert.True(t, s.Out.IsZero())
		assert.True(t, s.Interest.IsZero())
		assert.True(t, ComputeBalance(model.Account{}).IsZero())
	})
}

func TestFormatRows(t *testing.T) {
	acc := aliceAccount()

	t.Run("chronological newest first", func(t *testing.T) {
		rows := FormatRows(acc, false, fixedNow, plainFormatter{})
		require.Len(t, rows, 2)

		assert.Equal(t, 2, rows[0].Number)
		assert.Equal(t, model.Withdrawal, rows[0].Type)
		assert.Equal(t, "2 withdrawal", rows[0].Label)
		assert.Equal(t, "Yesterday", rows[0].DateDisplay)
		assert.Equal(t, "-100.00 EUR", rows[0].AmountDisplay)

		assert.Equal(t, 1, rows[1].Number)
		assert.Equal(t, model.Deposit, rows[1].Type)
		assert.Equal(t, "1 deposit", rows[1].Label)
		assert.Equal(t, "2024-03-05", rows[1].DateDisplay)
		assert.Equal(t, "200.00 EUR", rows[1].AmountDisplay)
	})

	t.Run("sorted by value keeps dates paired", func(t *testing.T) {
		rows := FormatRows(acc, true, fixedNow, plainFormatter{})
		require.Len(t, rows, 2)

		assert.Equal(t, 2, rows[0].Number)
		assert.True(t, rows[0].Value.Equal(dec("200")))
		assert.Equal(t, acc.MovementsDates[0], rows[0].Date)

		assert.Equal(t, 1, rows[1].Number)
		assert.True(t, rows[1].Value.Equal(dec("-100")))
		assert.Equal(t, "Yesterday", rows[1].DateDisplay)
	})

	t.Run("sorted by value with mixed movements", func(t *testing.T) {
		mixed := model.Account{
			Movements: decs("300", "-20", "1000", "-450", "70", "0"),
			MovementsDates: []time.Time{
				fixedNow.AddDate(0, 0, -30),
				fixedNow.AddDate(0, 0, -25),
				fixedNow.AddDate(0, 0, -20),
				fixedNow.AddDate(0, 0, -15),
				fixedNow.AddDate(0, 0, -10),
				fixedNow.AddDate(0, 0, -5),
			},
			Currency: "EUR",
		}
		source := map[string]time.Time{}
		for i, m := range mixed.Movements {
			source[m.String()] = mixed.MovementsDates[i]
		}

		rows := FormatRows(mixed, true, fixedNow, plainFormatter{})
		require.Len(t, rows, 6)

		var values []string
		for i, row := range rows {
			values = append(values, row.Value.String())
			assert.Equal(t, source[row.Value.String()], row.Date, "date of %s", row.Value)
			assert.Equal(t, len(rows)-i, row.Number)
			if i > 0 {
				assert.True(t, row.Value.LessThanOrEqual(rows[i-1].Value), "rows are emitted highest value first")
			}
		}
		assert.Equal(t, []string{"1000", "300", "70", "0", "-20", "-450"}, values)
	})

	t.Run("sorting does not touch the account", func(t *testing.T) {
		first := FormatRows(acc, true, fixedNow, plainFormatter{})
		second := FormatRows(acc, true, fixedNow, plainFormatter{})
		assert.Equal(t, first, second)
		assert.True(t, acc.Movements[0].Equal(dec("200")))
		assert.True(t, acc.Movements[1].Equal(dec("-100")))
	})

	t.Run("zero is a withdrawal", func(t *testing.T) {
		zero := model.Account{
			Movements:      decs("0"),
			MovementsDates: []time.Time{fixedNow},
			Currency:       "USD",
		}
		rows := FormatRows(zero, false, fixedNow, plainFormatter{})
		require.Len(t, rows, 1)
		assert.Equal(t, model.Withdrawal, rows[0].Type)
		assert.Equal(t, "Today", rows[0].DateDisplay)
	})

	t.Run("empty account", func(t *testing.T) {
		assert.Empty(t, FormatRows(model.Account{}, false, fixedNow, plainFormatter{}))
	})
}

func TestBuildStatement(t *testing.T) {
	st := BuildStatement(aliceAccount(), false, fixedNow, plainFormatter{})

	assert.Equal(t, "Welcome back, Alice", st.Welcome)
	assert.Equal(t, "2024-03-15 12:00", st.AsOf)
	assert.Equal(t, "100.00 EUR", st.Balance)
	assert.Equal(t, model.SummaryDisplay{In: "200.00 EUR", Out: "100.00 EUR", Interest: "2.40 EUR"}, st.Summary)
	assert.Len(t, st.Rows, 2)
	assert.False(t, st.Sorted)
}

// fakeCache is an in-memory ICacheClient.
type fakeCache struct {
	data    map[string]string
	getErr  error
	sets    int
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	v, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		c.deleted = append(c.deleted, k)
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestStatementService(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return fixedNow }

	t.Run("miss builds and stores", func(t *testing.T) {
		cache := newFakeCache()
		svc := NewStatementService(plainFormatter{}, cache, time.Minute, clock)

		st, err := svc.Statement(ctx, aliceAccount(), false)
		require.NoError(t, err)
		assert.Equal(t, "100.00 EUR", st.Balance)
		assert.Equal(t, 1, cache.sets)
		assert.Contains(t, cache.data, "statement:aa:false:2024-03-15:2")
	})

	t.Run("hit is served from cache", func(t *testing.T) {
		cache := newFakeCache()
		cached, _ := json.Marshal(model.Statement{Owner: "from cache"})
		cache.data["statement:aa:true:2024-03-15:2"] = string(cached)
		svc := NewStatementService(plainFormatter{}, cache, time.Minute, clock)

		st, err := svc.Statement(ctx, aliceAccount(), true)
		require.NoError(t, err)
		assert.Equal(t, "from cache", st.Owner)
		assert.Equal(t, 0, cache.sets)
	})

	t.Run("read error falls back to building", func(t *testing.T) {
		cache := newFakeCache()
		cache.getErr = errors.New("connection refused")
		svc := NewStatementService(plainFormatter{}, cache, time.Minute, clock)

		st, err := svc.Statement(ctx, aliceAccount(), false)
		require.NoError(t, err)
		assert.Equal(t, "Alice Anders", st.Owner)
	})

	t.Run("ledger changes invalidate both orderings", func(t *testing.T) {
		cache := newFakeCache()
		svc := NewStatementService(plainFormatter{}, cache, time.Minute, clock)
		_, _ = svc.Statement(ctx, aliceAccount(), false)
		_, _ = svc.Statement(ctx, aliceAccount(), true)

		svc.MovementAppended(ctx, "aa", dec("5"), fixedNow)

		assert.Equal(t, []string{"statement:aa:false:2024-03-15:2", "statement:aa:true:2024-03-15:2"}, cache.deleted)
		assert.Empty(t, cache.data)

		svc.AccountClosed(ctx, "aa")
		assert.Len(t, cache.deleted, 2, "nothing left to delete")
	})

	t.Run("statement stored after invalidation does not answer newer snapshot", func(t *testing.T) {
		cache := newFakeCache()
		svc := NewStatementService(plainFormatter{}, cache, time.Minute, clock)
		old := aliceAccount()
		fresh := aliceAccount()
		fresh.Movements = append(fresh.Movements, dec("-50"))
		fresh.MovementsDates = append(fresh.MovementsDates, fixedNow)

		// The ledger commits and invalidates while an older request is
		// still building from the pre-transfer snapshot.
		svc.MovementAppended(ctx, "aa", dec("-50"), fixedNow)
		stale, err := svc.Statement(ctx, old, false)
		require.NoError(t, err)
		assert.Equal(t, "100.00 EUR", stale.Balance)

		st, err := svc.Statement(ctx, fresh, false)
		require.NoError(t, err)
		assert.Equal(t, "50.00 EUR", st.Balance)
		assert.Len(t, st.Rows, 3)

		svc.Invalidate(ctx, "aa")
		assert.Empty(t, cache.data)
	})

	t.Run("without redis", func(t *testing.T) {
		svc := NewStatementService(plainFormatter{}, nil, time.Minute, clock)
		st, err := svc.Statement(ctx, aliceAccount(), true)
		require.NoError(t, err)
		assert.True(t, st.Sorted)
		svc.Invalidate(ctx, "aa")
	})
}
