package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ecb-rate-service/internal/adapter/cache"
	"ecb-rate-service/internal/adapter/repository"
	"ecb-rate-service/internal/domain/model"
	"ecb-rate-service/internal/domain/ports"
	"ecb-rate-service/internal/metrics"
	"ecb-rate-service/pkg/clock"
	"ecb-rate-service/pkg/logger"
	"ecb-rate-service/pkg/utils"
)

const (
	DefaultCurrentTTL = time.Hour
	DefaultHistoryTTL = 60 * 24 * time.Hour

	// NinetyDayWindow is how far back the 90-day document reaches, inclusive.
	NinetyDayWindow = 90
)

const (
	DailyURL      = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
	NinetyDaysURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist-90d.xml"
	HistoryURL    = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.xml"
)

type Endpoints struct {
	Daily      string
	NinetyDays string
	History    string
}

// Options configures an ExchangeService. Zero values fall back to defaults.
type Options struct {
	Cache      ports.Store
	CurrentTTL time.Duration
	HistoryTTL time.Duration
	Transport  ports.HTTPDoer
	Clock      ports.Clock
	Endpoints  Endpoints

	// UserAgent is the client token appended to outgoing User-Agent headers.
	UserAgent      string
	RequestFactory ports.RequestFactory

	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

type ExchangeService struct {
	repository ports.RateRepository
	clock      ports.Clock
	endpoints  Endpoints
	currentTTL time.Duration
	historyTTL time.Duration
	log        *logger.Logger
	metrics    *metrics.Metrics
}

func NewExchangeService(opts Options) *ExchangeService {
	if opts.Cache == nil {
		opts.Cache = cache.NullStore{}
	}
	if opts.CurrentTTL <= 0 {
		opts.CurrentTTL = DefaultCurrentTTL
	}
	if opts.HistoryTTL <= 0 {
		opts.HistoryTTL = DefaultHistoryTTL
	}
	if opts.Transport == nil {
		opts.Transport = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Endpoints.Daily == "" {
		opts.Endpoints.Daily = DailyURL
	}
	if opts.Endpoints.NinetyDays == "" {
		opts.Endpoints.NinetyDays = NinetyDaysURL
	}
	if opts.Endpoints.History == "" {
		opts.Endpoints.History = HistoryURL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}

	feedOpts := []repository.FeedOption{repository.WithRequestFactory(opts.RequestFactory)}
	if opts.UserAgent != "" {
		feedOpts = append(feedOpts, repository.WithUserAgent(opts.UserAgent))
	}
	rateCache := cache.NewRateCache(opts.Cache, opts.Logger)
	feed := repository.NewECBFeed(opts.Transport, rateCache, opts.Logger, opts.Metrics, feedOpts...)

	return newExchangeService(feed, opts)
}

func newExchangeService(repo ports.RateRepository, opts Options) *ExchangeService {
	return &ExchangeService{
		repository: repo,
		clock:      opts.Clock,
		endpoints:  opts.Endpoints,
		currentTTL: opts.CurrentTTL,
		historyTTL: opts.HistoryTTL,
		log:        opts.Logger,
		metrics:    opts.Metrics,
	}
}

// Supports reports whether Send can answer req at all. Only EUR based current
// and historical requests qualify.
func (s *ExchangeService) Supports(req model.Request) bool {
	switch r := req.(type) {
	case model.CurrentRequest:
		return r.Base == model.EUR
	case *model.CurrentRequest:
		return r != nil && r.Base == model.EUR
	case model.HistoricalRequest:
		return r.Base == model.EUR
	case *model.HistoricalRequest:
		return r != nil && r.Base == model.EUR
	default:
		return false
	}
}

// Send resolves req to a single reference rate.
func (s *ExchangeService) Send(ctx context.Context, req model.Request) (*model.Success, error) {
	var (
		kind   string
		result *model.Success
		err    error
	)

	switch r := req.(type) {
	case model.CurrentRequest:
		kind = "current"
		result, err = s.current(ctx, r)
	case *model.CurrentRequest:
		kind = "current"
		if r == nil {
			return nil, &model.UnsupportedRequestError{Request: req}
		}
		result, err = s.current(ctx, *r)
	case model.HistoricalRequest:
		kind = "historical"
		result, err = s.historical(ctx, r)
	case *model.HistoricalRequest:
		kind = "historical"
		if r == nil {
			return nil, &model.UnsupportedRequestError{Request: req}
		}
		result, err = s.historical(ctx, *r)
	default:
		s.metrics.RateRequestsTotal.WithLabelValues("unsupported", "not_supported").Inc()
		return nil, &model.UnsupportedRequestError{Request: req}
	}

	s.metrics.RateRequestsTotal.WithLabelValues(kind, outcome(err)).Inc()
	return result, err
}

// Warm loads the daily and 90-day documents into the cache. Documents that
// are still cached are not fetched again.
func (s *ExchangeService) Warm(ctx context.Context) error {
	s.log.Info("Warming rate cache")

	var errs []error
	if _, err := s.repository.Fetch(ctx, s.endpoints.Daily, s.currentTTL); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.repository.Fetch(ctx, s.endpoints.NinetyDays, s.currentTTL); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("Failed to warm rate cache", "error", err)
		return err
	}
	return nil
}

func (s *ExchangeService) current(ctx context.Context, req model.CurrentRequest) (*model.Success, error) {
	pair := req.Pair()
	if req.Base != model.EUR {
		return nil, model.NewRateNotFound(pair, nil)
	}

	table, err := s.repository.Fetch(ctx, s.endpoints.Daily, s.currentTTL)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, model.NewRateNotFound(pair, nil)
	}

	day := table[0]
	rate, ok := day.Rates[req.Quote]
	if !ok {
		return nil, model.NewRateNotFound(pair, nil)
	}

	date, err := utils.ParseDate(day.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
	}

	s.log.Debug("Resolved current rate", "pair", pair.String(), "date", day.Date)
	return &model.Success{Base: req.Base, Quote: req.Quote, Rate: rate, Date: date}, nil
}

func (s *ExchangeService) historical(ctx context.Context, req model.HistoricalRequest) (*model.Success, error) {
	pair := req.Pair()
	requested := req.Date
	if req.Base != model.EUR {
		return nil, model.NewRateNotFound(pair, &requested)
	}

	today := utils.Today(s.clock.Now())
	age := utils.DaysAgo(today, requested)
	if age < 0 {
		return nil, model.NewRateNotFoundMessage(pair, &requested, "Date seems to be in future")
	}

	key := utils.FormatDate(requested)
	var (
		day   model.DayRates
		found bool
	)

	if age <= NinetyDayWindow {
		table, err := s.repository.Fetch(ctx, s.endpoints.NinetyDays, s.currentTTL)
		if err != nil {
			return nil, err
		}
		day, found = ResolveDay(key, table)
		if !found {
			s.metrics.HistoryFallbacksTotal.Inc()
			s.log.Debug("Date not covered by 90-day document, using full history", "date", key)
		}
	}

	if !found {
		table, err := s.repository.Fetch(ctx, s.endpoints.History, s.historyTTL)
		if err != nil {
			return nil, err
		}
		day, found = ResolveDay(key, table)
	}
	if !found {
		return nil, model.NewRateNotFound(pair, &requested)
	}

	rate, ok := day.Rates[req.Quote]
	if !ok {
		return nil, model.NewRateNotFound(pair, &requested)
	}

	effective, err := utils.ParseDate(day.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
	}

	s.log.Debug("Resolved historical rate", "pair", pair.String(), "requested", key, "effective", day.Date)
	return &model.Success{Base: req.Base, Quote: req.Quote, Rate: rate, Date: effective}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, model.ErrRateNotFound):
		return "not_found"
	case errors.Is(err, model.ErrRequestNotSupported):
		return "not_supported"
	case errors.Is(err, model.ErrCacheFailure):
		return "cache_error"
	case errors.Is(err, model.ErrMalformedDocument):
		return "malformed"
	default:
		return "transport_error"
	}
}

var _ ports.ExchangeService = (*ExchangeService)(nil)
