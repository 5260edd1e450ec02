package app

import (
	"fmt"
	"time"

	"go-bankist/config"
	"go-bankist/service"

	"github.com/shopspring/decimal"
)

// seedAccount converts a configured seed into ledger input. Seeds without
// dates get one movement per day, ending today.
func seedAccount(seed config.AccountSeed, now time.Time) (service.NewAccount, error) {
	in := service.NewAccount{
		Owner:        seed.Owner,
		Pin:          seed.Pin,
		InterestRate: decimal.NewFromFloat(seed.InterestRate),
		Currency:     seed.Currency,
		Locale:       seed.Locale,
		Movements:    make([]decimal.Decimal, len(seed.Movements)),
		Dates:        make([]time.Time, len(seed.Movements)),
	}
	for i, m := range seed.Movements {
		in.Movements[i] = decimal.NewFromFloat(m)
	}

	n := len(seed.Movements)
	if len(seed.Dates) == 0 {
		for i := range in.Dates {
			in.Dates[i] = now.AddDate(0, 0, -(n - 1 - i))
		}
		return in, nil
	}
	if len(seed.Dates) != n {
		return service.NewAccount{}, fmt.Errorf("account %q: %d movements but %d dates", seed.Owner, n, len(seed.Dates))
	}
	for i, d := range seed.Dates {
		t, err := time.Parse(time.RFC3339, d)
		if err != nil {
			return service.NewAccount{}, fmt.Errorf("account %q: date %d: %w", seed.Owner, i, err)
		}
		in.Dates[i] = t
	}
	return in, nil
}
