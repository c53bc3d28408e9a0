package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeOther    AccountType = "other"
)

// Account represents a balance-holding account in a user's ledger.
// Balance is stored in cents and is maintained exclusively by the
// transaction service; it always equals the initial balance plus the
// signed sum of all transactions referencing the account.
type Account struct {
	Base
	UserID  string      `gorm:"not null;index" json:"user_id"`
	Name    string      `gorm:"not null" json:"name"`
	Type    AccountType `gorm:"not null" json:"type"`
	Balance int64       `gorm:"type:bigint;not null;default:0" json:"balance"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
