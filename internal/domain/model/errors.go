package model

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

var (
	ErrRequestNotSupported = errors.New("request not supported")
	ErrRateNotFound        = errors.New("exchange rate not found")
	ErrTransportFailure    = errors.New("upstream transport failure")
	ErrCacheFailure        = errors.New("cache failure")
	ErrMalformedDocument   = errors.New("malformed rate document")
)

// RateNotFoundError is a semantic miss: wrong base, unknown quote or a day
// the provider cannot answer for.
type RateNotFoundError struct {
	Pair CurrencyPair
	Date *civil.Date
	msg  string
}

func NewRateNotFound(pair CurrencyPair, date *civil.Date) *RateNotFoundError {
	return &RateNotFoundError{Pair: pair, Date: date}
}

// NewRateNotFoundMessage builds a miss with a fixed message.
func NewRateNotFoundMessage(pair CurrencyPair, date *civil.Date, msg string) *RateNotFoundError {
	return &RateNotFoundError{Pair: pair, Date: date, msg: msg}
}

func (e *RateNotFoundError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.Date != nil {
		return fmt.Sprintf("Unable to find exchange rate for %s on %s", e.Pair, e.Date)
	}
	return fmt.Sprintf("Unable to find exchange rate for %s", e.Pair)
}

func (e *RateNotFoundError) Unwrap() error {
	return ErrRateNotFound
}

// HTTPFailureError carries the upstream exchange that returned a non-200 status.
type HTTPFailureError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPFailureError) Error() string {
	return fmt.Sprintf("HTTP error %d. Response is %q", e.StatusCode, e.Body)
}

func (e *HTTPFailureError) Unwrap() error {
	return ErrTransportFailure
}

// UnsupportedRequestError names the request type the provider refused.
type UnsupportedRequestError struct {
	Request any
}

func (e *UnsupportedRequestError) Error() string {
	return fmt.Sprintf("Unsupported request type: %q", fmt.Sprintf("%T", e.Request))
}

func (e *UnsupportedRequestError) Unwrap() error {
	return ErrRequestNotSupported
}
