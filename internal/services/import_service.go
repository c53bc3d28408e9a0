package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/importer"
	"tally/internal/logger"
	"tally/internal/models"
	"tally/internal/money"
)

// maxReportedErrors caps how many row error messages an ImportResult
// carries; Failed always holds the exact count.
const maxReportedErrors = 3

// importService drives bulk transaction imports. Rows are applied
// strictly in file order, each as its own atomic mutation; a failed row
// is recorded and skipped without rolling back earlier rows.
type importService struct {
	accountService     AccountServicer
	transactionService TransactionServicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(accountService AccountServicer, transactionService TransactionServicer) ImportServicer {
	return &importService{
		accountService:     accountService,
		transactionService: transactionService,
	}
}

// ImportCSV reads a ledger CSV and applies each row through the balance
// mutation engine. It fails outright only on structural problems (an
// unreadable file or missing header columns); per-row failures are
// accumulated into the result. Accounts are resolved by case-insensitive
// name and are never auto-created.
func (s *importService) ImportCSV(userID string, r io.Reader) (*ImportResult, error) {
	rows, err := importer.Parse(r)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	accounts, err := s.accountService.GetAccountsByName(userID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		if err := s.applyRow(userID, accounts, row); err != nil {
			result.Failed++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, err.Error())
			}
			continue
		}
		result.Imported++
	}

	logger.Get().Infow("import finished",
		"user_id", userID,
		"imported", result.Imported,
		"failed", result.Failed,
	)
	return result, nil
}

// applyRow converts one CSV row into a transaction draft and applies it.
func (s *importService) applyRow(userID string, accounts map[string]*models.Account, row importer.Row) error {
	account, ok := resolveAccount(accounts, row.Account)
	if !ok {
		return fmt.Errorf("row %d: account %q not found", row.Line, row.Account)
	}

	if row.Date == "" || row.Source == "" || row.Amount == "" || row.Category == "" {
		return fmt.Errorf("row %d: missing or invalid data", row.Line)
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return fmt.Errorf("row %d: invalid date %q", row.Line, row.Date)
	}

	cents, err := money.ParseAmount(row.Amount)
	if err != nil {
		return fmt.Errorf("row %d: %v", row.Line, err)
	}
	if cents == 0 {
		return fmt.Errorf("row %d: amount cannot be zero", row.Line)
	}

	// The sign picks the direction; the stored amount is the magnitude.
	transactionType := models.TransactionTypeInflow
	if cents < 0 {
		transactionType = models.TransactionTypeOutflow
		cents = -cents
	}

	draft := TransactionDraft{
		AccountID:   account.ID,
		Type:        transactionType,
		Amount:      cents,
		Description: row.Source,
		Category:    row.Category,
		Date:        date,
	}
	if _, err := s.transactionService.CreateTransaction(userID, draft); err != nil {
		return fmt.Errorf("row %d: %v", row.Line, err)
	}
	return nil
}

// resolveAccount finds an account by case-insensitive name.
func resolveAccount(accounts map[string]*models.Account, name string) (*models.Account, bool) {
	account, ok := accounts[strings.ToLower(strings.TrimSpace(name))]
	return account, ok
}

// importDateLayouts are the date formats accepted in CSV rows.
var importDateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
