package treasury

import (
	"context"
	"errors"

	"brickshare-backend/internal/application/wallet"
	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns the platform fee rate and the accumulated-fee balance.
type Service struct {
	DB *gorm.DB
}

// Get returns the singleton treasury row, creating it with the default fee
// rate on first touch. Works inside or outside a transaction.
func Get(tx *gorm.DB) (*domain.PlatformTreasury, error) {
	var t domain.PlatformTreasury
	err := tx.Where("treasury_id = ?", 1).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t = domain.PlatformTreasury{ID: 1, FeeBps: domain.DefaultFeeBps}
		if err := tx.Create(&t).Error; err != nil {
			return nil, err
		}
		return &t, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FeeOn computes the platform's cut of a sale amount at the current rate,
// truncating toward zero, and accrues it. Returns the fee taken. Called
// inside purchase/offer settlement transactions.
func FeeOn(tx *gorm.DB, amount int64) (int64, error) {
	t, err := Get(tx)
	if err != nil {
		return 0, err
	}
	fee := amount * t.FeeBps / 10000
	if fee == 0 {
		return 0, nil
	}
	t.AccumulatedFees += fee
	if err := tx.Save(t).Error; err != nil {
		return 0, err
	}
	return fee, nil
}

// Current returns the fee rate (bps) and accumulated fees (cents).
func (s *Service) Current(ctx context.Context) (*domain.PlatformTreasury, error) {
	return Get(s.DB.WithContext(ctx))
}

// UpdateFee overwrites the platform fee rate, affecting all subsequent sales.
// Capped at MaxFeeBps (10%); exactly the cap is allowed.
func (s *Service) UpdateFee(ctx context.Context, feeBps int64) (*domain.PlatformTreasury, error) {
	if feeBps < 0 {
		return nil, domain.ErrInvalidValue
	}
	if feeBps > domain.MaxFeeBps {
		return nil, domain.ErrFeeTooHigh
	}
	var out *domain.PlatformTreasury
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := Get(tx)
		if err != nil {
			return err
		}
		t.FeeBps = feeBps
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

// WithdrawFees moves the full accumulated balance to the administrator's
// wallet and resets it to zero. A zero balance still succeeds, transferring
// nothing.
func (s *Service) WithdrawFees(ctx context.Context, adminID uuid.UUID) (int64, error) {
	var withdrawn int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := Get(tx)
		if err != nil {
			return err
		}
		withdrawn = t.AccumulatedFees
		if withdrawn == 0 {
			return nil
		}
		if err := wallet.Credit(tx, adminID, withdrawn); err != nil {
			return err
		}
		t.AccumulatedFees = 0
		return tx.Save(t).Error
	})
	return withdrawn, err
}
