package services

import (
	"io"
	"time"

	"tally/internal/models"
	"tally/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name string, accountType models.AccountType, initialBalance int64) (*models.Account, error)
	GetUserAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	GetAccountsByName(userID string) (map[string]*models.Account, error)
}

// TransactionDraft carries the validated fields of a new transaction.
type TransactionDraft struct {
	AccountID   string
	Type        models.TransactionType
	Amount      int64
	Description string
	Category    string
	Date        time.Time
}

// TransactionServicer is the balance mutation engine: the only component
// that performs balance arithmetic. Every operation applies the
// transaction record change and the owning account's balance change as
// one atomic unit.
type TransactionServicer interface {
	CreateTransaction(userID string, draft TransactionDraft) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, draft TransactionDraft) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// ImportResult summarizes a bulk import run. Failed is the exact number
// of rejected rows; Errors holds at most the first few row messages.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportServicer drives bulk transaction imports from a CSV feed.
type ImportServicer interface {
	ImportCSV(userID string, r io.Reader) (*ImportResult, error)
}

// MonthTotals holds per-category outflow sums for one month.
type MonthTotals struct {
	Month  string           `json:"month"`
	Totals map[string]int64 `json:"totals"`
}

// MonthlyReport is a fixed January-to-December series of per-category
// outflow totals for one year.
type MonthlyReport struct {
	Year       int           `json:"year"`
	Categories []string      `json:"categories"`
	Months     []MonthTotals `json:"months"`
}

// ReportServicer computes derived read-only views of the ledger.
type ReportServicer interface {
	MonthlyBreakdown(userID string, year int) (*MonthlyReport, error)
	AvailableYears(userID string) ([]int, error)
}
