package trading

import (
	"context"
	"errors"
	"time"

	"brickshare-backend/internal/application/events"
	"brickshare-backend/internal/application/shares"
	"brickshare-backend/internal/application/treasury"
	"brickshare-backend/internal/application/wallet"
	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service settles primary purchases and secondary offers. Every operation is
// one transaction: all failure checks run before any mutation commits, and
// money moves in the same transaction as the shares.
type Service struct {
	DB            *gorm.DB
	OfferLifetime time.Duration
}

// Purchase buys shares from the primary pool. The buyer authorizes spending
// up to payment cents; exactly shares*pricePerShare is debited, so an
// authorized overpayment never leaves the wallet (the refund-overpay policy
// with no transfer to undo). The owner is paid cost minus the platform fee.
func (s *Service) Purchase(ctx context.Context, buyerID uuid.UUID, propertyID uint, shareCount, payment int64) (*domain.Property, error) {
	if shareCount <= 0 {
		return nil, domain.ErrInvalidShares
	}

	var property domain.Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPropertyNotFound
			}
			return err
		}
		if shareCount > property.AvailableShares {
			return domain.ErrInsufficientAvailability
		}
		cost := shareCount * property.PricePerShare
		if payment < cost {
			return domain.ErrInsufficientPayment
		}

		if err := wallet.Debit(tx, buyerID, cost); err != nil {
			return err
		}
		fee, err := treasury.FeeOn(tx, cost)
		if err != nil {
			return err
		}
		if err := wallet.Credit(tx, property.OwnerID, cost-fee); err != nil {
			return err
		}

		if err := shares.Transfer(tx, propertyID, property.OwnerID, buyerID, shareCount); err != nil {
			return err
		}
		property.AvailableShares -= shareCount
		if err := tx.Save(&property).Error; err != nil {
			return err
		}

		if err := events.Emit(tx, propertyID, domain.EventSharesPurchased, &buyerID, map[string]interface{}{
			"property_id": propertyID,
			"buyer_id":    buyerID.String(),
			"shares":      shareCount,
			"total_price": cost,
		}); err != nil {
			return err
		}
		return events.Emit(tx, propertyID, domain.EventSharesTransferred, &buyerID, map[string]interface{}{
			"property_id": propertyID,
			"from":        property.OwnerID.String(),
			"to":          buyerID.String(),
			"shares":      shareCount,
		})
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// CreateOffer escrows shares*pricePerShare from the buyer's wallet and opens
// a funded offer. The escrow is owned by the offer until acceptance or
// cancellation; no other operation can spend it.
func (s *Service) CreateOffer(ctx context.Context, buyerID uuid.UUID, propertyID uint, shareCount, pricePerShare int64) (*domain.Offer, error) {
	if shareCount <= 0 {
		return nil, domain.ErrInvalidShares
	}
	if pricePerShare <= 0 {
		return nil, domain.ErrInvalidValue
	}

	lifetime := s.OfferLifetime
	if lifetime <= 0 {
		lifetime = 7 * 24 * time.Hour
	}

	var offer domain.Offer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPropertyNotFound
			}
			return err
		}

		escrow := shareCount * pricePerShare
		if err := wallet.Debit(tx, buyerID, escrow); err != nil {
			return err
		}

		offer = domain.Offer{
			PropertyID:    propertyID,
			BuyerID:       buyerID,
			Shares:        shareCount,
			PricePerShare: pricePerShare,
			TotalPrice:    escrow,
			IsActive:      true,
			ExpiresAt:     time.Now().Add(lifetime),
		}
		if err := tx.Create(&offer).Error; err != nil {
			return err
		}

		return events.Emit(tx, propertyID, domain.EventOfferCreated, &buyerID, map[string]interface{}{
			"offer_id":        offer.ID,
			"property_id":     propertyID,
			"buyer_id":        buyerID.String(),
			"shares":          shareCount,
			"price_per_share": pricePerShare,
		})
	})
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// AcceptOffer settles an open offer: the caller sells sharesOffered shares to
// the offer's buyer and receives the escrowed total minus the platform fee.
// The escrow is consumed exactly once; the offer goes permanently inactive.
func (s *Service) AcceptOffer(ctx context.Context, sellerID uuid.UUID, offerID uint) (*domain.Offer, error) {
	var offer domain.Offer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offerID).First(&offer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOfferNotFound
			}
			return err
		}
		if !offer.IsActive {
			return domain.ErrOfferNotActive
		}

		held, err := shares.Balance(tx, offer.PropertyID, sellerID)
		if err != nil {
			return err
		}
		if held < offer.Shares {
			return domain.ErrInsufficientShares
		}

		if err := shares.Transfer(tx, offer.PropertyID, sellerID, offer.BuyerID, offer.Shares); err != nil {
			return err
		}

		fee, err := treasury.FeeOn(tx, offer.TotalPrice)
		if err != nil {
			return err
		}
		if err := wallet.Credit(tx, sellerID, offer.TotalPrice-fee); err != nil {
			return err
		}

		offer.IsActive = false
		if err := tx.Save(&offer).Error; err != nil {
			return err
		}

		if err := events.Emit(tx, offer.PropertyID, domain.EventOfferAccepted, &sellerID, map[string]interface{}{
			"offer_id":    offer.ID,
			"property_id": offer.PropertyID,
			"seller_id":   sellerID.String(),
			"buyer_id":    offer.BuyerID.String(),
			"shares":      offer.Shares,
		}); err != nil {
			return err
		}
		return events.Emit(tx, offer.PropertyID, domain.EventSharesTransferred, &sellerID, map[string]interface{}{
			"property_id": offer.PropertyID,
			"from":        sellerID.String(),
			"to":          offer.BuyerID.String(),
			"shares":      offer.Shares,
		})
	})
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// CancelOffer refunds the full escrow to the buyer and deactivates the offer.
// Only the offer's buyer may cancel; once settled either way the offer stays
// inactive forever.
func (s *Service) CancelOffer(ctx context.Context, callerID uuid.UUID, offerID uint) (*domain.Offer, error) {
	var offer domain.Offer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offerID).First(&offer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOfferNotFound
			}
			return err
		}
		if offer.BuyerID != callerID {
			return domain.ErrUnauthorized
		}
		if !offer.IsActive {
			return domain.ErrOfferNotActive
		}

		if err := wallet.Credit(tx, offer.BuyerID, offer.TotalPrice); err != nil {
			return err
		}

		offer.IsActive = false
		if err := tx.Save(&offer).Error; err != nil {
			return err
		}

		return events.Emit(tx, offer.PropertyID, domain.EventOfferCancelled, &callerID, map[string]interface{}{
			"offer_id":    offer.ID,
			"property_id": offer.PropertyID,
			"refund":      offer.TotalPrice,
		})
	})
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetOffer returns one offer by id.
func (s *Service) GetOffer(ctx context.Context, offerID uint) (*domain.Offer, error) {
	var offer domain.Offer
	if err := s.DB.WithContext(ctx).Where("offer_id = ?", offerID).First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

// CountOffers returns the total number of offers ever created.
func (s *Service) CountOffers(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Offer{}).Count(&n).Error
	return n, err
}

// ListPropertyOffers returns all offers targeting a property, newest first.
func (s *Service) ListPropertyOffers(ctx context.Context, propertyID uint) ([]domain.Offer, error) {
	var out []domain.Offer
	err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("offer_id DESC").
		Find(&out).Error
	return out, err
}
