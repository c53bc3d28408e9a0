package services

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "tally/internal/errors"
	"tally/internal/feed"
	"tally/internal/models"
	"tally/internal/pagination"
)

// transactionService is the balance mutation engine. All balance
// arithmetic happens here, inside database transactions that lock the
// affected account rows, so concurrent mutations on one account are
// serialized and a partially-applied state is never observable.
type transactionService struct {
	db  *gorm.DB
	hub *feed.Hub
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, hub *feed.Hub) TransactionServicer {
	return &transactionService{db: db, hub: hub}
}

// validateDraft checks the shape of a transaction draft before any
// mutation is attempted. It reports the first violated constraint.
func validateDraft(draft TransactionDraft) error {
	if draft.AccountID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if draft.Type != models.TransactionTypeInflow && draft.Type != models.TransactionTypeOutflow {
		return apperrors.ErrInvalidTransactionType
	}
	if draft.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if strings.TrimSpace(draft.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if strings.TrimSpace(draft.Category) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if draft.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	return nil
}

// signedAmount returns the balance delta a draft would contribute.
func signedAmount(t models.TransactionType, amount int64) int64 {
	if t == models.TransactionTypeOutflow {
		return -amount
	}
	return amount
}

// lockAccount re-reads an account row with a row lock inside tx. The
// re-read both serializes concurrent balance updates and catches
// accounts deleted since the caller last saw them.
func lockAccount(tx *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// writeBalance persists a new balance for an account row.
func writeBalance(tx *gorm.DB, account *models.Account, balance int64) error {
	account.Balance = balance
	if err := tx.Model(account).Update("balance", balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateTransaction atomically creates a transaction and applies its
// signed delta to the owning account's balance.
func (s *transactionService) CreateTransaction(userID string, draft TransactionDraft) (*models.Transaction, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   draft.AccountID,
		Type:        draft.Type,
		Amount:      draft.Amount,
		Description: draft.Description,
		Category:    draft.Category,
		Date:        draft.Date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID, draft.AccountID)
		if err != nil {
			return err
		}

		if err := writeBalance(tx, account, account.Balance+signedAmount(draft.Type, draft.Amount)); err != nil {
			return err
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(feed.Event{UserID: userID, Kind: feed.KindTransaction, Action: feed.ActionCreated, ID: transaction.ID})
	return transaction, nil
}

// UpdateTransaction reconciles an edit against the stored balances: the
// old signed delta is reversed on the old account, the new signed delta
// is applied to the new account, and the record is rewritten, all in one
// database transaction. Same-account edits collapse into a single net
// adjustment.
func (s *transactionService) UpdateTransaction(userID, transactionID string, draft TransactionDraft) (*models.Transaction, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	var updated models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := lockTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}

		oldDelta := existing.SignedAmount()
		newDelta := signedAmount(draft.Type, draft.Amount)

		if existing.AccountID == draft.AccountID {
			account, err := lockAccount(tx, userID, draft.AccountID)
			if err != nil {
				return err
			}
			if err := writeBalance(tx, account, account.Balance-oldDelta+newDelta); err != nil {
				return err
			}
		} else {
			// Lock both accounts in ID order so two edits moving
			// transactions between the same pair cannot deadlock.
			ids := []string{existing.AccountID, draft.AccountID}
			sort.Strings(ids)

			locked := make(map[string]*models.Account, 2)
			for _, id := range ids {
				account, err := lockAccount(tx, userID, id)
				if err != nil {
					return err
				}
				locked[id] = account
			}

			oldAccount := locked[existing.AccountID]
			newAccount := locked[draft.AccountID]
			if err := writeBalance(tx, oldAccount, oldAccount.Balance-oldDelta); err != nil {
				return err
			}
			if err := writeBalance(tx, newAccount, newAccount.Balance+newDelta); err != nil {
				return err
			}
		}

		existing.AccountID = draft.AccountID
		existing.Type = draft.Type
		existing.Amount = draft.Amount
		existing.Description = draft.Description
		existing.Category = draft.Category
		existing.Date = draft.Date
		if err := tx.Save(existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updated = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(feed.Event{UserID: userID, Kind: feed.KindTransaction, Action: feed.ActionUpdated, ID: updated.ID})
	return &updated, nil
}

// DeleteTransaction atomically reverses the transaction's signed delta
// on its account and removes the record. Deleting an already-deleted
// transaction is an error, not a no-op.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := lockTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}

		account, err := lockAccount(tx, userID, existing.AccountID)
		if err != nil {
			return err
		}

		if err := writeBalance(tx, account, account.Balance-existing.SignedAmount()); err != nil {
			return err
		}

		if err := tx.Delete(existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Publish(feed.Event{UserID: userID, Kind: feed.KindTransaction, Action: feed.ActionDeleted, ID: transactionID})
	return nil
}

// lockTransaction re-reads a transaction row with a row lock inside tx.
func lockTransaction(tx *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	return s.listTransactions(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), page)
}

// GetAccountTransactions retrieves a paginated list of transactions for
// a specific account, newest first.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	// Verify the account belongs to the user before listing.
	var count int64
	if err := s.db.Model(&models.Account{}).Where("id = ? AND user_id = ?", accountID, userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrAccountNotFound
	}

	return s.listTransactions(s.db.Model(&models.Transaction{}).Where("user_id = ? AND account_id = ?", userID, accountID), page)
}

func (s *transactionService) listTransactions(base *gorm.DB, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
