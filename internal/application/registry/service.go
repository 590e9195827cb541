package registry

import (
	"context"
	"errors"

	"brickshare-backend/internal/application/events"
	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns property records, their provenance deeds and the primary share
// allocation created at registration.
type Service struct {
	DB *gorm.DB
}

// RegisterInput carries registerProperty parameters. Currency fields are cents.
type RegisterInput struct {
	Name                string
	Location            string
	Category            domain.PropertyCategory
	TotalValue          int64
	TotalShares         int64
	PricePerShare       int64
	MonthlyRentalIncome int64
	MetadataRef         string
}

// Register creates a property, mints its deed to the caller and allocates the
// full share supply to the caller. Available shares start at the full supply;
// primary purchases move shares out of the owner's allocation and shrink the
// available pool in lockstep.
func (s *Service) Register(ctx context.Context, ownerID uuid.UUID, in RegisterInput) (*domain.Property, error) {
	if in.TotalValue <= 0 {
		return nil, domain.ErrInvalidValue
	}
	if in.TotalShares <= 0 {
		return nil, domain.ErrInvalidShares
	}
	if in.PricePerShare <= 0 {
		return nil, domain.ErrInvalidValue
	}
	if !in.Category.Valid() {
		return nil, domain.ErrInvalidValue
	}

	var property domain.Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property = domain.Property{
			OwnerID:             ownerID,
			Name:                in.Name,
			Location:            in.Location,
			Category:            in.Category,
			TotalValue:          in.TotalValue,
			TotalShares:         in.TotalShares,
			AvailableShares:     in.TotalShares,
			PricePerShare:       in.PricePerShare,
			Status:              domain.StatusActive,
			Verified:            false,
			MonthlyRentalIncome: in.MonthlyRentalIncome,
			MetadataRef:         in.MetadataRef,
		}
		if err := tx.Create(&property).Error; err != nil {
			return err
		}

		deed := domain.PropertyDeed{PropertyID: property.ID, OwnerID: ownerID}
		if err := tx.Create(&deed).Error; err != nil {
			return err
		}

		holding := domain.ShareHolding{
			PropertyID: property.ID,
			AccountID:  ownerID,
			Shares:     in.TotalShares,
		}
		if err := tx.Create(&holding).Error; err != nil {
			return err
		}

		return events.Emit(tx, property.ID, domain.EventPropertyRegistered, &ownerID, map[string]interface{}{
			"property_id":  property.ID,
			"owner_id":     ownerID.String(),
			"name":         property.Name,
			"total_value":  property.TotalValue,
			"total_shares": property.TotalShares,
		})
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Verify sets the verified flag. Idempotent: verifying twice leaves the flag
// true with no error. Admin authorization is enforced at the route.
func (s *Service) Verify(ctx context.Context, adminID uuid.UUID, propertyID uint) (*domain.Property, error) {
	var property domain.Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPropertyNotFound
			}
			return err
		}
		if property.Verified {
			return nil
		}
		property.Verified = true
		if err := tx.Save(&property).Error; err != nil {
			return err
		}
		return events.Emit(tx, property.ID, domain.EventPropertyVerified, &adminID, map[string]interface{}{
			"property_id": property.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// UpdateStatus overwrites the property status unconditionally; any status is
// reachable from any other. Admin authorization is enforced at the route.
func (s *Service) UpdateStatus(ctx context.Context, propertyID uint, status domain.PropertyStatus) (*domain.Property, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidValue
	}
	var property domain.Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPropertyNotFound
			}
			return err
		}
		property.Status = status
		return tx.Save(&property).Error
	})
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Get returns one property by id.
func (s *Service) Get(ctx context.Context, propertyID uint) (*domain.Property, error) {
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

// List returns all properties, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	err := s.DB.WithContext(ctx).Order("property_id DESC").Find(&out).Error
	return out, err
}

// Count returns the total number of registered properties.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Property{}).Count(&n).Error
	return n, err
}

// ListByOwner returns the properties whose deed an account holds.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	var out []domain.Property
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "PropertyDeeds" d ON d.property_id = "Properties".property_id`).
		Where("d.owner_id = ?", ownerID).
		Order(`"Properties".property_id`).
		Find(&out).Error
	return out, err
}

// DeedOwner returns the provenance-token holder for a property (ownerOf).
func (s *Service) DeedOwner(ctx context.Context, propertyID uint) (uuid.UUID, error) {
	var deed domain.PropertyDeed
	if err := s.DB.WithContext(ctx).Where("property_id = ?", propertyID).First(&deed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, domain.ErrPropertyNotFound
		}
		return uuid.Nil, err
	}
	return deed.OwnerID, nil
}

// DeedCount returns how many property deeds an account holds (balanceOf).
func (s *Service) DeedCount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.PropertyDeed{}).Where("owner_id = ?", accountID).Count(&n).Error
	return n, err
}
