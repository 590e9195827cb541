package wallet

import (
	"context"
	"errors"

	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes wallet reads and withdrawals. Credits and debits that are
// part of a ledger operation go through the package-level helpers inside that
// operation's transaction.
type Service struct {
	DB *gorm.DB
}

// Balance returns the account's spendable balance in cents.
func (s *Service) Balance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var a domain.Account
	if err := s.DB.WithContext(ctx).Where("account_id = ?", accountID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, err
	}
	return a.WalletBalance, nil
}

// Withdraw debits the account's wallet. The payout itself is delegated to the
// external settlement rail; here only the balance moves.
func (s *Service) Withdraw(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidValue
	}
	var remaining int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := Debit(tx, accountID, amount); err != nil {
			return err
		}
		var a domain.Account
		if err := tx.Where("account_id = ?", accountID).First(&a).Error; err != nil {
			return err
		}
		remaining = a.WalletBalance
		return nil
	})
	return remaining, err
}

// Debit subtracts amount from the account's wallet inside an open transaction.
// The guarded update keeps the balance non-negative even under concurrent
// spends; zero rows affected means the balance was short (or absent).
func Debit(tx *gorm.DB, accountID uuid.UUID, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidValue
	}
	if amount == 0 {
		return nil
	}
	res := tx.Model(&domain.Account{}).
		Where("account_id = ? AND wallet_balance >= ?", accountID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var a domain.Account
		if err := tx.Where("account_id = ?", accountID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return err
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

// Credit adds amount to the account's wallet inside an open transaction.
func Credit(tx *gorm.DB, accountID uuid.UUID, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidValue
	}
	if amount == 0 {
		return nil
	}
	res := tx.Model(&domain.Account{}).
		Where("account_id = ?", accountID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
