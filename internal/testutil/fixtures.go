package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tally/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a checking account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates a checking account with the given
// balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:  userID,
		Name:    fmt.Sprintf("Test Account %d", nextID()),
		Type:    models.AccountTypeChecking,
		Balance: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestNamedAccount creates an account with an explicit name and type.
func CreateTestNamedAccount(t *testing.T, db *gorm.DB, userID, name string, accountType models.AccountType, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:  userID,
		Name:    name,
		Type:    accountType,
		Balance: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account %q: %v", name, err)
	}
	return account
}

// CreateTestTransaction inserts a transaction row directly, bypassing the
// balance engine. Use it only where a dangling record is the point.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, transactionType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Type:        transactionType,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Category:    "Test",
		Date:        time.Now(),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}
