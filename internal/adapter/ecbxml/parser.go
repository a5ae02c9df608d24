// Package ecbxml decodes the ECB euro foreign exchange reference rate
// documents (eurofxref-daily, eurofxref-hist-90d, eurofxref-hist).
//
// All three share one shape:
//
//	<gesmes:Envelope>
//	  <Cube>
//	    <Cube time="2025-06-18">
//	      <Cube currency="USD" rate="1.1508"/>
//	      ...
//
// Date groups are kept in document order, which the ECB publishes newest
// first.
package ecbxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"ecb-rate-service/internal/domain/model"
)

const (
	envelopeElement = "Envelope"
	cubeElement     = "Cube"
)

// Parse reads one rate document. Any structural problem yields an error
// wrapping model.ErrMalformedDocument and no table.
func Parse(r io.Reader) (model.RateTable, error) {
	dec := xml.NewDecoder(r)

	var (
		table    = model.RateTable{}
		current  *model.DayRates
		depth    int
		cube     int
		rootSeen bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("decode: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if t.Name.Local != envelopeElement {
					return nil, malformed("unexpected root element %q", t.Name.Local)
				}
				rootSeen = true
				continue
			}
			if t.Name.Local != cubeElement {
				if cube > 0 {
					return nil, malformed("unexpected element %q inside Cube", t.Name.Local)
				}
				continue
			}

			cube++
			switch cube {
			case 2:
				day, err := parseDay(t)
				if err != nil {
					return nil, err
				}
				table = append(table, day)
				current = &table[len(table)-1]
			case 3:
				if current == nil {
					return nil, malformed("rate outside of a date group")
				}
				ccy, rate, err := parseRate(t)
				if err != nil {
					return nil, fmt.Errorf("%w (date %s)", err, current.Date)
				}
				current.Rates[ccy] = rate
			case 1:
			default:
				return nil, malformed("Cube nested too deep")
			}

		case xml.EndElement:
			depth--
			if t.Name.Local == cubeElement && cube > 0 {
				if cube == 2 {
					current = nil
				}
				cube--
			}
		}
	}

	if !rootSeen {
		return nil, malformed("empty document")
	}
	if depth != 0 {
		return nil, malformed("unexpected end of document")
	}

	return table, nil
}

func parseDay(el xml.StartElement) (model.DayRates, error) {
	date, ok := attr(el, "time")
	if !ok {
		return model.DayRates{}, malformed("date group without time attribute")
	}
	if _, err := civil.ParseDate(date); err != nil {
		return model.DayRates{}, malformed("invalid date %q", date)
	}
	return model.DayRates{Date: date, Rates: make(map[model.Currency]model.Rate)}, nil
}

func parseRate(el xml.StartElement) (model.Currency, model.Rate, error) {
	ccy, ok := attr(el, "currency")
	if !ok {
		return "", "", malformed("rate without currency attribute")
	}
	rate, ok := attr(el, "rate")
	if !ok {
		return "", "", malformed("rate without rate attribute for %s", ccy)
	}
	if _, err := decimal.NewFromString(rate); err != nil {
		return "", "", malformed("invalid rate %q for %s", rate, ccy)
	}
	return model.Currency(ccy), model.Rate(rate), nil
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrMalformedDocument, fmt.Sprintf(format, args...))
}
