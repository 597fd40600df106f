package equalweight

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 10 * time.Second
	DefaultBaseDelay      = 5 * time.Second
	DefaultMultiplier     = 2.0
	DefaultMaxDelay       = time.Minute
)

// FetchConfig holds the retry policy of a Fetcher.
type FetchConfig struct {
	MaxAttempts    int           // attempts per symbol, including the first one
	AttemptTimeout time.Duration // deadline of a single attempt
	Backoff        BackoffConfig
}

// BackoffConfig configures the delay between two attempts on the same symbol.
// When disabled, attempts are chained without delay.
type BackoffConfig struct {
	Enabled    bool
	BaseDelay  time.Duration // delay before the second attempt
	Multiplier float64       // growth factor of the following delays
	MaxDelay   time.Duration
}

// DefaultFetchConfig returns 3 attempts of 10s each, without backoff.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		MaxAttempts:    DefaultMaxAttempts,
		AttemptTimeout: DefaultAttemptTimeout,
		Backoff: BackoffConfig{
			BaseDelay:  DefaultBaseDelay,
			Multiplier: DefaultMultiplier,
			MaxDelay:   DefaultMaxDelay,
		},
	}
}

// FetchStatus is the outcome of the retrieval of one symbol.
type FetchStatus int

const (
	Fetched     FetchStatus = iota // a QuoteRecord was produced
	MissingData                    // the source answered without a usable price or market cap
	Exhausted                      // every attempt failed
)

func (s FetchStatus) String() string {
	switch s {
	case Fetched:
		return "fetched"
	case MissingData:
		return "missing data"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// FetchResult is the outcome of the retrieval of one symbol.
// Record is only valid when Status is Fetched, Err is set otherwise.
type FetchResult struct {
	Symbol   Symbol
	Status   FetchStatus
	Record   QuoteRecord
	Attempts int
	Err      error
}

// Fetcher retrieves quotes one symbol at a time, retrying failed attempts.
type Fetcher struct {
	src   QuoteSource
	cfg   FetchConfig
	log   logrus.FieldLogger
	timer backoff.Timer // nil for the default timer
}

// NewFetcher returns a Fetcher reading from src.
// Zero values in cfg are replaced by their default.
func NewFetcher(src QuoteSource, cfg FetchConfig, log logrus.FieldLogger) *Fetcher {
	def := DefaultFetchConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}
	if cfg.Backoff.BaseDelay <= 0 {
		cfg.Backoff.BaseDelay = def.Backoff.BaseDelay
	}
	if cfg.Backoff.Multiplier < 1 {
		cfg.Backoff.Multiplier = def.Backoff.Multiplier
	}
	if cfg.Backoff.MaxDelay < cfg.Backoff.BaseDelay {
		cfg.Backoff.MaxDelay = max(def.Backoff.MaxDelay, cfg.Backoff.BaseDelay)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Fetcher{src: src, cfg: cfg, log: log}
}

// Fetch returns the records of the symbols that could be retrieved, in order.
func (f *Fetcher) Fetch(ctx context.Context, symbols []Symbol) []QuoteRecord {
	return Records(f.FetchAll(ctx, symbols))
}

// FetchAll retrieves every symbol in turn and returns one result per symbol,
// in the same order. A symbol that cannot be retrieved is logged and reported
// in its result, it never interrupts the others.
//
// Once ctx is done, the remaining symbols are not asked for: they are all
// reported Exhausted with the error of ctx, under a single warning.
func (f *Fetcher) FetchAll(ctx context.Context, symbols []Symbol) []FetchResult {
	results := make([]FetchResult, 0, len(symbols))
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		res := f.fetch(ctx, symbol)
		if res.Status != Fetched && ctx.Err() != nil {
			// interrupted, reported with the rest.
			break
		}
		if res.Status != Fetched {
			f.log.WithFields(logrus.Fields{
				"symbol":   symbol,
				"status":   res.Status.String(),
				"attempts": res.Attempts,
			}).WithError(res.Err).Warnf("Error retrieving info for %s", symbol)
		}
		results = append(results, res)
	}

	if rest := symbols[len(results):]; len(rest) > 0 {
		err := ctx.Err()
		f.log.WithField("remaining", len(rest)).WithError(err).Warnf("interrupted, %d symbol(s) not retrieved", len(rest))
		for _, symbol := range rest {
			results = append(results, FetchResult{
				Symbol: symbol,
				Status: Exhausted,
				Err:    &TransientFetchError{Symbol: symbol, Err: err},
			})
		}
	}
	return results
}

// fetch runs the attempts for a single symbol.
func (f *Fetcher) fetch(ctx context.Context, symbol Symbol) FetchResult {
	res := FetchResult{Symbol: symbol}

	attempt := func() error {
		res.Attempts++
		actx, cancel := context.WithTimeout(ctx, f.cfg.AttemptTimeout)
		defer cancel()

		q, err := f.src.Quote(actx, symbol)
		if err != nil {
			return err
		}
		rec, err := q.Record(symbol)
		if err != nil {
			// the source answered, asking again won't change the answer.
			return backoff.Permanent(err)
		}
		res.Record = rec
		return nil
	}
	notify := func(err error, next time.Duration) {
		f.log.WithFields(logrus.Fields{
			"symbol":  symbol,
			"attempt": res.Attempts,
			"next":    next,
		}).WithError(err).Debug("attempt failed")
	}

	err := backoff.RetryNotifyWithTimer(attempt, f.policy(ctx), notify, f.timer)
	switch {
	case err == nil:
		res.Status = Fetched
	case errors.Is(err, ErrMissingData):
		res.Status, res.Err = MissingData, err
	default:
		res.Status = Exhausted
		res.Err = &TransientFetchError{Symbol: symbol, Attempts: res.Attempts, Err: err}
	}
	return res
}

// policy returns the backoff policy for one symbol: at most MaxAttempts
// attempts, separated by exponential delays if enabled.
func (f *Fetcher) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if f.cfg.Backoff.Enabled {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = f.cfg.Backoff.BaseDelay
		exp.Multiplier = f.cfg.Backoff.Multiplier
		exp.MaxInterval = f.cfg.Backoff.MaxDelay
		exp.RandomizationFactor = 0
		exp.MaxElapsedTime = 0 // bounded by the number of attempts only
		b = exp
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(f.cfg.MaxAttempts-1)), ctx)
}

// Records keeps the records of the fetched results, in order.
func Records(results []FetchResult) []QuoteRecord {
	records := make([]QuoteRecord, 0, len(results))
	for _, r := range results {
		if r.Status == Fetched {
			records = append(records, r.Record)
		}
	}
	return records
}
