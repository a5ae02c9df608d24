package model

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Rate is a reference rate exactly as the source document spells it.
type Rate string

// Decimal parses the rate for callers that need arithmetic.
func (r Rate) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(string(r))
}

func (r Rate) String() string {
	return string(r)
}

// DayRates holds the rates of one publication day. EUR is never a key.
type DayRates struct {
	Date  string            `json:"date"`
	Rates map[Currency]Rate `json:"rates"`
}

// RateTable keeps the publication days in document order, newest first.
// Lookups rely on that order and never re-sort.
type RateTable []DayRates

type CurrencyPair struct {
	BaseCurrency   Currency `json:"base_currency"`
	TargetCurrency Currency `json:"target_currency"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s/%s", p.BaseCurrency, p.TargetCurrency)
}

// Success is a resolved rate. Date is the publication day the rate belongs
// to, which can be earlier than the requested day.
type Success struct {
	Base  Currency   `json:"base"`
	Quote Currency   `json:"quote"`
	Rate  Rate       `json:"rate"`
	Date  civil.Date `json:"date"`
}
