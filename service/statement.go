// file: service/statement.go

package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"go-bankist/format"
	"go-bankist/model"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var (
	hundred     = decimal.NewFromInt(100)
	minInterest = decimal.NewFromInt(1)
)

// ComputeBalance sums all movements.
func ComputeBalance(acc model.Account) decimal.Decimal {
	return acc.Balance()
}

// ComputeSummary totals deposits, withdrawals (as a positive number) and
// interest. Interest is earned per deposit and only counted when that
// deposit's interest reaches 1.
func ComputeSummary(acc model.Account) model.Summary {
	s := model.Summary{In: decimal.Zero, Out: decimal.Zero, Interest: decimal.Zero}
	for _, m := range acc.Movements {
		switch {
		case m.IsPositive():
			s.In = s.In.Add(m)
			interest := m.Mul(acc.InterestRate).Div(hundred)
			if interest.GreaterThanOrEqual(minInterest) {
				s.Interest = s.Interest.Add(interest)
			}
		case m.IsNegative():
			s.Out = s.Out.Add(m.Abs())
		}
	}
	return s
}

type pairedMovement struct {
	value decimal.Decimal
	date  time.Time
}

// FormatRows builds the movement list newest first. With sortByValue the
// movements are ordered by ascending value instead of chronologically,
// and the list is still shown from the end. Row numbers are positions in
// that ordering, so the top row carries the highest number.
func FormatRows(acc model.Account, sortByValue bool, now time.Time, f format.Formatter) []model.Row {
	pairs := make([]pairedMovement, len(acc.Movements))
	for i, m := range acc.Movements {
		pairs[i] = pairedMovement{value: m, date: acc.MovementsDates[i]}
	}
	if sortByValue {
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].value.LessThan(pairs[j].value)
		})
	}

	rows := make([]model.Row, 0, len(pairs))
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		typ := model.TypeOf(p.value)
		rows = append(rows, model.Row{
			Number:        i + 1,
			Type:          typ,
			Label:         strconv.Itoa(i+1) + " " + string(typ),
			Value:         p.value,
			Date:          p.date,
			DateDisplay:   f.RelativeDate(now, p.date, acc.Locale),
			AmountDisplay: f.FormatCurrency(p.value, acc.Currency, acc.Locale),
		})
	}
	return rows
}

// BuildStatement assembles the full account view.
func BuildStatement(acc model.Account, sortByValue bool, now time.Time, f format.Formatter) model.Statement {
	sum := ComputeSummary(acc)
	return model.Statement{
		Owner:    acc.Owner,
		Username: acc.Username,
		Welcome:  "Welcome back, " + acc.FirstName(),
		AsOf:     f.FormatDateTime(now, acc.Locale),
		Balance:  f.FormatCurrency(ComputeBalance(acc), acc.Currency, acc.Locale),
		Summary: model.SummaryDisplay{
			In:       f.FormatCurrency(sum.In, acc.Currency, acc.Locale),
			Out:      f.FormatCurrency(sum.Out, acc.Currency, acc.Locale),
			Interest: f.FormatCurrency(sum.Interest, acc.Currency, acc.Locale),
		},
		Rows:   FormatRows(acc, sortByValue, now, f),
		Sorted: sortByValue,
	}
}

// StatementService renders statements and caches them in Redis. It also
// observes the ledger to drop cached statements of changed accounts.
type StatementService struct {
	formatter   format.Formatter
	redisClient ICacheClient
	ttl         time.Duration
	now         func() time.Time
	inflight    singleflight.Group

	mu     sync.Mutex
	stored map[string]map[string]struct{}
}

// NewStatementService creates the service. redisClient may be nil, in
// which case nothing is cached.
func NewStatementService(f format.Formatter, redisClient ICacheClient, ttl time.Duration, now func() time.Time) *StatementService {
	if now == nil {
		now = time.Now
	}
	return &StatementService{
		formatter:   f,
		redisClient: redisClient,
		ttl:         ttl,
		now:         now,
		stored:      make(map[string]map[string]struct{}),
	}
}

// Statement returns the statement of acc using a cache-aside strategy.
func (s *StatementService) Statement(ctx context.Context, acc model.Account, sortByValue bool) (model.Statement, error) {
	now := s.now()
	if s.redisClient == nil {
		return BuildStatement(acc, sortByValue, now, s.formatter), nil
	}

	key := statementKey(acc, sortByValue, now)
	if st, ok := s.cached(ctx, key); ok {
		return st, nil
	}

	// Concurrent misses on the same snapshot share one build.
	v, _, _ := s.inflight.Do(key, func() (any, error) {
		st := BuildStatement(acc, sortByValue, now, s.formatter)
		s.store(ctx, key, st)
		return st, nil
	})
	return v.(model.Statement), nil
}

func (s *StatementService) MovementAppended(ctx context.Context, username string, _ decimal.Decimal, _ time.Time) {
	s.Invalidate(ctx, username)
}

func (s *StatementService) AccountClosed(ctx context.Context, username string) {
	s.Invalidate(ctx, username)
}
