package service

import "ecb-rate-service/internal/domain/model"

// ResolveDay returns the publication day that answers for date: the day
// itself when present, otherwise the newest day before it. The table must be
// newest first. ISO dates compare correctly as strings.
func ResolveDay(date string, table model.RateTable) (model.DayRates, bool) {
	for _, day := range table {
		if day.Date == date {
			return day, true
		}
	}

	for _, day := range table {
		if day.Date > date {
			continue
		}
		return day, true
	}
	return model.DayRates{}, false
}
