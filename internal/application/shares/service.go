package shares

import (
	"context"
	"errors"

	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes share-ledger reads.
type Service struct {
	DB *gorm.DB
}

// GetUserShares returns the holder's share count for a property, 0 for
// holders that never acquired any.
func (s *Service) GetUserShares(ctx context.Context, propertyID uint, accountID uuid.UUID) (int64, error) {
	var p domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrPropertyNotFound
		}
		return 0, err
	}
	return Balance(s.DB.WithContext(ctx), propertyID, accountID)
}

// Balance reads a holding balance inside or outside a transaction.
func Balance(tx *gorm.DB, propertyID uint, accountID uuid.UUID) (int64, error) {
	var h domain.ShareHolding
	err := tx.Where("property_id = ? AND account_id = ?", propertyID, accountID).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Shares, nil
}

// Transfer moves count shares of a property from one holder to another within
// an open transaction. The sender must already hold at least count shares.
// Zero or negative counts are the caller's validation responsibility and are
// rejected here as a safety net. The sender's row is decremented in place and
// kept at zero when emptied; the receiver's row is created on first acquisition.
func Transfer(tx *gorm.DB, propertyID uint, from, to uuid.UUID, count int64) error {
	if count <= 0 {
		return domain.ErrInvalidShares
	}

	var sender domain.ShareHolding
	if err := tx.Where("property_id = ? AND account_id = ?", propertyID, from).First(&sender).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInsufficientShares
		}
		return err
	}
	if sender.Shares < count {
		return domain.ErrInsufficientShares
	}

	sender.Shares -= count
	if err := tx.Save(&sender).Error; err != nil {
		return err
	}

	var receiver domain.ShareHolding
	err := tx.Where("property_id = ? AND account_id = ?", propertyID, to).First(&receiver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		receiver = domain.ShareHolding{
			PropertyID: propertyID,
			AccountID:  to,
			Shares:     count,
		}
		return tx.Create(&receiver).Error
	}
	if err != nil {
		return err
	}
	receiver.Shares += count
	return tx.Save(&receiver).Error
}
