package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"brickshare-backend/internal/application/events"
	"brickshare-backend/internal/application/registry"
	"brickshare-backend/internal/application/trading"
	"brickshare-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEventsTest(t *testing.T) (*events.Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{}, &domain.Property{}, &domain.PropertyDeed{},
		&domain.ShareHolding{}, &domain.Offer{}, &domain.PlatformTreasury{},
		&domain.PropertyEvent{},
	))
	return &events.Service{DB: db}, db
}

func TestEmit_RecordsPayloadAndActor(t *testing.T) {
	svc, db := setupEventsTest(t)
	actorID := uuid.New()

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return events.Emit(tx, 1, domain.EventPropertyRegistered, &actorID, map[string]interface{}{
			"total_shares": 100,
		})
	}))

	out, err := svc.ListByProperty(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.EventPropertyRegistered, out[0].EventType)
	require.NotNil(t, out[0].ActorID)
	assert.Equal(t, actorID, *out[0].ActorID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(out[0].EventData, &payload))
	assert.Equal(t, float64(100), payload["total_shares"])
}

func TestLifecycleLeavesAnEventTrail(t *testing.T) {
	svc, db := setupEventsTest(t)

	owner := domain.Account{Fullname: "Owner", Email: "owner@brickshare.dev", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(&owner).Error)
	buyer := domain.Account{Fullname: "Buyer", Email: "buyer@brickshare.dev", PasswordHash: "x", Role: domain.RoleUser, WalletBalance: 10_000}
	require.NoError(t, db.Create(&buyer).Error)

	reg := &registry.Service{DB: db}
	property, err := reg.Register(context.Background(), owner.AccountID, registry.RegisterInput{
		Name: "Pier House", Location: "Hamburg", Category: domain.CategoryResidential,
		TotalValue: 10_000, TotalShares: 100, PricePerShare: 100,
	})
	require.NoError(t, err)

	trade := &trading.Service{DB: db, OfferLifetime: 24 * time.Hour}
	_, err = trade.Purchase(context.Background(), buyer.AccountID, property.ID, 10, 1_000)
	require.NoError(t, err)

	out, err := svc.ListByProperty(context.Background(), property.ID)
	require.NoError(t, err)

	types := make([]string, 0, len(out))
	for _, e := range out {
		types = append(types, e.EventType)
	}
	assert.Contains(t, types, domain.EventPropertyRegistered)
	assert.Contains(t, types, domain.EventSharesPurchased)
	assert.Contains(t, types, domain.EventSharesTransferred)
}
