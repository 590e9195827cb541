package income

import (
	"context"
	"errors"

	"brickshare-backend/internal/application/events"
	"brickshare-backend/internal/application/shares"
	"brickshare-backend/internal/application/wallet"
	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service pools rental income per property and pays holders their
// proportional entitlement on demand. No holder enumeration anywhere: a
// deposit touches one aggregate row, a claim touches the aggregate, the
// claimant's wallet and the claimant's cumulative-claimed row.
type Service struct {
	DB *gorm.DB
}

// Deposit adds amount cents to the property's income pool, debited from the
// depositor's wallet. Any account may deposit; the period label is recorded
// on the event for audit only and plays no part in the arithmetic.
func (s *Service) Deposit(ctx context.Context, depositorID uuid.UUID, propertyID uint, amount int64, period string) (*domain.RentalIncome, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidValue
	}

	var agg domain.RentalIncome
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPropertyNotFound
			}
			return err
		}

		if err := wallet.Debit(tx, depositorID, amount); err != nil {
			return err
		}

		a, err := getAggregate(tx, propertyID)
		if err != nil {
			return err
		}
		a.TotalDeposited += amount
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		agg = *a

		return events.Emit(tx, propertyID, domain.EventRentalIncomeDeposited, &depositorID, map[string]interface{}{
			"property_id": propertyID,
			"amount":      amount,
			"period":      period,
		})
	})
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// Unclaimed returns the property's not-yet-claimed income pool.
func (s *Service) Unclaimed(ctx context.Context, propertyID uint) (int64, error) {
	if _, err := s.property(ctx, propertyID); err != nil {
		return 0, err
	}
	var agg domain.RentalIncome
	err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return agg.TotalDeposited - agg.TotalClaimed, nil
}

// CalculateDividend returns a holder's claimable amount right now:
// unclaimed pool * current shares / total shares, truncated toward zero.
// Entitlement is recomputed from present holdings on every call, never from a
// snapshot at deposit time.
func (s *Service) CalculateDividend(ctx context.Context, propertyID uint, accountID uuid.UUID) (int64, error) {
	property, err := s.property(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	return calculate(s.DB.WithContext(ctx), property, accountID)
}

// Claim pays the caller their current entitlement in one shot. Fails with
// NoDividendsAvailable when the entitlement is zero. After a claim the
// holder's next calculation reflects only income deposited (or left
// unclaimed by others) since.
func (s *Service) Claim(ctx context.Context, accountID uuid.UUID, propertyID uint) (int64, error) {
	var paid int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPropertyNotFound
			}
			return err
		}

		amount, err := calculate(tx, &property, accountID)
		if err != nil {
			return err
		}
		if amount == 0 {
			return domain.ErrNoDividends
		}

		agg, err := getAggregate(tx, propertyID)
		if err != nil {
			return err
		}
		agg.TotalClaimed += amount
		if err := tx.Save(agg).Error; err != nil {
			return err
		}

		if err := wallet.Credit(tx, accountID, amount); err != nil {
			return err
		}

		var claim domain.DividendClaim
		err = tx.Where("property_id = ? AND account_id = ?", propertyID, accountID).First(&claim).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			claim = domain.DividendClaim{PropertyID: propertyID, AccountID: accountID, Claimed: amount}
			if err := tx.Create(&claim).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			claim.Claimed += amount
			if err := tx.Save(&claim).Error; err != nil {
				return err
			}
		}

		paid = amount
		return events.Emit(tx, propertyID, domain.EventDividendsClaimed, &accountID, map[string]interface{}{
			"property_id": propertyID,
			"holder_id":   accountID.String(),
			"amount":      amount,
		})
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

// HolderClaimed returns a holder's cumulative claimed total for a property.
func (s *Service) HolderClaimed(ctx context.Context, propertyID uint, accountID uuid.UUID) (int64, error) {
	var claim domain.DividendClaim
	err := s.DB.WithContext(ctx).Where("property_id = ? AND account_id = ?", propertyID, accountID).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return claim.Claimed, nil
}

func (s *Service) property(ctx context.Context, propertyID uint) (*domain.Property, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func calculate(tx *gorm.DB, property *domain.Property, accountID uuid.UUID) (int64, error) {
	var agg domain.RentalIncome
	err := tx.Where("property_id = ?", property.ID).First(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	unclaimed := agg.TotalDeposited - agg.TotalClaimed
	if unclaimed <= 0 {
		return 0, nil
	}
	held, err := shares.Balance(tx, property.ID, accountID)
	if err != nil {
		return 0, err
	}
	return unclaimed * held / property.TotalShares, nil
}

func getAggregate(tx *gorm.DB, propertyID uint) (*domain.RentalIncome, error) {
	var agg domain.RentalIncome
	err := tx.Where("property_id = ?", propertyID).First(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		agg = domain.RentalIncome{PropertyID: propertyID}
		if err := tx.Create(&agg).Error; err != nil {
			return nil, err
		}
		return &agg, nil
	}
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
