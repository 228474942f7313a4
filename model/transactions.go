package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense, positive = income
	Currency    string          `json:"currency"`
	Date        string          `json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionsResponse is the backend envelope. Data is nil when the
// backend omits it.
type TransactionsResponse struct {
	Data []Transaction `json:"data"`
}

// DateRange is an inclusive range of calendar dates formatted as YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
