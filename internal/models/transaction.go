package models

import "time"

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeInflow  TransactionType = "inflow"
	TransactionTypeOutflow TransactionType = "outflow"
)

// Transaction represents a dated, categorized monetary event applied to
// exactly one account. Amount is a positive magnitude in cents; the
// direction is carried by Type.
type Transaction struct {
	Base
	UserID      string          `gorm:"not null;index" json:"user_id"`
	AccountID   string          `gorm:"not null;index" json:"account_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `gorm:"not null" json:"description"`
	Category    string          `gorm:"not null" json:"category"`
	Date        time.Time       `gorm:"not null" json:"date"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// SignedAmount returns the delta the transaction contributes to its
// account's balance: +Amount for inflow, -Amount for outflow.
func (t *Transaction) SignedAmount() int64 {
	if t.Type == TransactionTypeOutflow {
		return -t.Amount
	}
	return t.Amount
}
