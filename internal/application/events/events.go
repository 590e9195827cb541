package events

import (
	"context"
	"encoding/json"

	"brickshare-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Emit writes a property event inside an open transaction so the event is
// committed with (and only with) the state change it describes.
func Emit(tx *gorm.DB, propertyID uint, eventType string, actorID *uuid.UUID, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&domain.PropertyEvent{
		PropertyID: propertyID,
		EventType:  eventType,
		ActorID:    actorID,
		EventData:  datatypes.JSON(data),
	}).Error
}

// Service exposes the event feed read.
type Service struct {
	DB *gorm.DB
}

// ListByProperty returns a property's events, newest first.
func (s *Service) ListByProperty(ctx context.Context, propertyID uint) ([]domain.PropertyEvent, error) {
	var out []domain.PropertyEvent
	err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order(`"createdAt" DESC`).
		Find(&out).Error
	return out, err
}
