// Package sessiontest seeds session state for tests and local front-end work.
// Nothing in the request path imports it.
package sessiontest

import (
	"context"
	"time"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	repo "github.com/oksasatya/loyalty-funnel/internal/domain/repository"
)

var fixedCreatedAt = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

// UserRecord returns a fresh registered record with a birthday and CRM id.
func UserRecord() *entity.UserRecord {
	return &entity.UserRecord{
		FirstName:     "Ana",
		LastName:      "Lopez",
		Email:         "ana@example.com",
		Phone:         "+15551234567",
		BirthMonth:    "March",
		BirthDay:      "5",
		ChatbotUserID: "crm-fixture-1",
		CreatedAt:     fixedCreatedAt,
	}
}

// LoyaltyData returns a fresh pass record matching UserRecord.
func LoyaltyData() *entity.LoyaltyData {
	u := UserRecord()
	return &entity.LoyaltyData{
		ID:        "SN-FIXTURE-1",
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Card:      entity.LoyaltyCard{URL: "https://pass.example.com/SN-FIXTURE-1"},
		CustomFields: entity.LoyaltyCustomFields{
			Ofertas:   "Free Cheese Nachos",
			IDTarjeta: "SN-FIXTURE-1",
		},
		CreatedAt: fixedCreatedAt,
		UpdatedAt: fixedCreatedAt,
	}
}

// Seed writes rec, and loyalty when non-nil, under sessionID.
func Seed(ctx context.Context, store repo.SessionStore, sessionID string, rec *entity.UserRecord, loyalty *entity.LoyaltyData) error {
	if rec != nil {
		if err := store.SaveUser(ctx, sessionID, rec); err != nil {
			return err
		}
	}
	if loyalty != nil {
		if err := store.SaveLoyalty(ctx, sessionID, loyalty); err != nil {
			return err
		}
	}
	return nil
}
