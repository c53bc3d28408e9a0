package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/feed"
	"tally/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db  *gorm.DB
	hub *feed.Hub
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, hub *feed.Hub) AccountServicer {
	return &accountService{db: db, hub: hub}
}

// CreateAccount creates a new account for a user with an explicit initial
// balance. Account names are unique per user, compared case-insensitively,
// so that name-based import lookups are unambiguous.
func (s *accountService) CreateAccount(userID, name string, accountType models.AccountType, initialBalance int64) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	switch accountType {
	case models.AccountTypeChecking, models.AccountTypeSavings, models.AccountTypeCredit, models.AccountTypeOther:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid account type")
	}

	account := &models.Account{
		UserID:  userID,
		Name:    name,
		Type:    accountType,
		Balance: initialBalance,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).
			Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateAccountName
		}

		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(feed.Event{UserID: userID, Kind: feed.KindAccount, Action: feed.ActionCreated, ID: account.ID})
	return account, nil
}

// GetUserAccounts retrieves all accounts for a user, ordered by name.
func (s *accountService) GetUserAccounts(userID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetAccountsByName returns the user's accounts keyed by lowercased name,
// for case-insensitive lookups during bulk import.
func (s *accountService) GetAccountsByName(userID string) (map[string]*models.Account, error) {
	accounts, err := s.GetUserAccounts(userID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.Account, len(accounts))
	for i := range accounts {
		byName[strings.ToLower(accounts[i].Name)] = &accounts[i]
	}
	return byName, nil
}
