package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"granite-core/logger"
	"granite-core/model"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// monthLayouts are the accepted spellings of a month selector.
var monthLayouts = []string{dateLayout, "2006-01", time.RFC3339}

// ITransactionAPI is the backend the transaction queries delegate to.
type ITransactionAPI interface {
	GetRecent(ctx context.Context) (*model.TransactionsResponse, error)
	GetByDateRange(ctx context.Context, startDate, endDate string) (*model.TransactionsResponse, error)
}

// SessionSource supplies the stored token the cached queries belong to.
// repository.TokenRepository satisfies it.
type SessionSource interface {
	Get(ctx context.Context) (string, bool)
}

// TransactionService binds query keys to backend fetches. Caching and
// deduplication are left to the QueryCache.
type TransactionService struct {
	api     ITransactionAPI
	session SessionSource
	cache   *QueryCache
}

func NewTransactionService(api ITransactionAPI, session SessionSource, cache *QueryCache) *TransactionService {
	if cache == nil {
		cache = NewQueryCache(nil, 0)
	}
	return &TransactionService{api: api, session: session, cache: cache}
}

const anonymousScope = "anonymous"

// SessionScope derives the cache scope of a token. The token itself never
// appears in a cache key.
func SessionScope(token string) string {
	if token == "" {
		return anonymousScope
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func TransactionsKey() QueryKey { return QueryKey{"transactions"} }

func RecentTransactionsKey(scope string) QueryKey {
	return QueryKey{"transactions", scope, "recent"}
}

// MonthlyTransactionsKey keys on the normalised month (YYYY-MM) so that any
// date inside a month shares one cache entry.
func MonthlyTransactionsKey(scope string, r model.DateRange) QueryKey {
	return QueryKey{"transactions", scope, "monthly", r.StartDate[:7]}
}

func (s *TransactionService) scope(ctx context.Context) string {
	if s.session == nil {
		return anonymousScope
	}
	token, _ := s.session.Get(ctx)
	return SessionScope(token)
}

// MonthRange returns the first and last calendar day of the month containing month.
func MonthRange(month string) (model.DateRange, error) {
	month = strings.TrimSpace(month)
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, month)
		if err != nil {
			continue
		}
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		// Day 0 of the next month is the last day of this one.
		end := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		return model.DateRange{
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
		}, nil
	}
	return model.DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDate, month)
}

// GetRecentTransactions returns the most recent transactions, or an empty slice.
func (s *TransactionService) GetRecentTransactions(ctx context.Context) ([]model.Transaction, error) {
	return Fetch(ctx, s.cache, RecentTransactionsKey(s.scope(ctx)), func(ctx context.Context) ([]model.Transaction, error) {
		logger.Log.Info("Fetching recent transactions")
		resp, err := s.api.GetRecent(ctx)
		if err != nil {
			return nil, err
		}
		return dataOrEmpty(resp), nil
	})
}

// GetMonthlyTransactions returns the transactions of the calendar month containing month.
func (s *TransactionService) GetMonthlyTransactions(ctx context.Context, month string) ([]model.Transaction, error) {
	dateRange, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	return Fetch(ctx, s.cache, MonthlyTransactionsKey(s.scope(ctx), dateRange), func(ctx context.Context) ([]model.Transaction, error) {
		logger.Log.WithFields(logrus.Fields{
			"start_date": dateRange.StartDate,
			"end_date":   dateRange.EndDate,
		}).Info("Fetching monthly transactions")

		resp, err := s.api.GetByDateRange(ctx, dateRange.StartDate, dateRange.EndDate)
		if err != nil {
			return nil, err
		}
		return dataOrEmpty(resp), nil
	})
}

// InvalidateTransactions drops every cached transaction query of every session.
func (s *TransactionService) InvalidateTransactions(ctx context.Context) {
	s.cache.Invalidate(ctx, TransactionsKey())
}

func dataOrEmpty(resp *model.TransactionsResponse) []model.Transaction {
	if resp == nil || resp.Data == nil {
		return []model.Transaction{}
	}
	return resp.Data
}
