package model

import "cloud.google.com/go/civil"

// Request is a rate query. CurrentRequest and HistoricalRequest are the kinds
// the provider understands; anything else is reported as unsupported.
type Request interface {
	Pair() CurrencyPair
}

type CurrentRequest struct {
	Base  Currency
	Quote Currency
}

func (r CurrentRequest) Pair() CurrencyPair {
	return CurrencyPair{BaseCurrency: r.Base, TargetCurrency: r.Quote}
}

type HistoricalRequest struct {
	Base  Currency
	Quote Currency
	Date  civil.Date
}

func (r HistoricalRequest) Pair() CurrencyPair {
	return CurrencyPair{BaseCurrency: r.Base, TargetCurrency: r.Quote}
}
