package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/oksasatya/loyalty-funnel/config"
	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/redisstore"
	"github.com/oksasatya/loyalty-funnel/internal/session/sessiontest"
	"github.com/oksasatya/loyalty-funnel/pkg/helpers"
	"github.com/oksasatya/loyalty-funnel/pkg/validation"
)

// fixture mirrors the registration form rules so seeded data looks like real signups.
type fixture struct {
	FirstName  string `json:"firstName" validate:"required,person_name"`
	LastName   string `json:"lastName" validate:"required,person_name"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,loyalty_phone"`
	BirthMonth string `json:"birthMonth" validate:"omitempty,birth_month"`
	BirthDay   string `json:"birthDay" validate:"omitempty,birth_day"`
}

func check(v *validator.Validate, rec *entity.UserRecord) error {
	err := v.Struct(fixture{
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Email:      rec.Email,
		Phone:      rec.Phone,
		BirthMonth: rec.BirthMonth,
		BirthDay:   rec.BirthDay,
	})
	if err != nil {
		return fmt.Errorf("invalid fixture: %s", validation.FirstError(validation.ToDetails(err)))
	}
	return nil
}

// Seeds a session in Redis for front-end work against a running server and
// prints the cookie that selects it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	sid := flag.String("sid", "", "session id to seed (default: new random id)")
	crmID := flag.String("crm-id", "", "CRM user id stored on the record")
	withLoyalty := flag.Bool("loyalty", true, "also seed loyalty data")
	clearOnly := flag.Bool("clear", false, "remove the session's data instead of seeding it")
	flag.Parse()

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required to sign the session cookie")
	}
	if *sid == "" {
		if *clearOnly {
			log.Fatal("-clear needs -sid")
		}
		*sid = helpers.NewSessionID()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer func() { _ = rdb.Close() }()
	store := redisstore.NewSessionStore(rdb, cfg.SessionTTL)

	if *clearOnly {
		if err := store.Clear(ctx, *sid); err != nil {
			log.Fatalf("failed to clear session: %v", err)
		}
		fmt.Printf("cleared session %s\n", *sid)
		return
	}

	rec := sessiontest.UserRecord()
	if *crmID != "" {
		rec.ChatbotUserID = *crmID
	}
	if err := check(validation.New(), rec); err != nil {
		log.Fatal(err)
	}

	loyalty := sessiontest.LoyaltyData()
	if !*withLoyalty {
		loyalty = nil
	}
	if err := sessiontest.Seed(ctx, store, *sid, rec, loyalty); err != nil {
		log.Fatalf("failed to seed session: %v", err)
	}

	tok, exp, err := helpers.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL, cfg.AppName).Sign(*sid)
	if err != nil {
		log.Fatalf("failed to sign session token: %v", err)
	}
	fmt.Printf("seeded session: sid=%s email=%s crm_id=%s loyalty=%v\n", *sid, rec.Email, rec.ChatbotUserID, loyalty != nil)
	fmt.Printf("cookie: %s=%s (expires %s)\n", cfg.SessionCookieName, tok, exp.Format(time.RFC3339))
}
