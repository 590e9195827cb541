package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account is a platform participant: a property owner, share buyer or the
// platform administrator. WalletBalance is the account's spendable balance
// in cents; every payable ledger operation debits it and every payout
// credits it inside the same transaction as the share movement.
type Account struct {
	AccountID     uuid.UUID      `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	Fullname      string         `gorm:"column:fullname;not null" json:"fullname"`
	Email         string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash  string         `gorm:"column:password_hash;not null" json:"-"`
	Role          string         `gorm:"column:role;not null;default:user" json:"role"`
	WalletBalance int64          `gorm:"column:wallet_balance;not null;default:0" json:"wallet_balance"`
	CreatedAt     time.Time      `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "Accounts"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.AccountID == uuid.Nil {
		a.AccountID = uuid.New()
	}
	return nil
}
