package router

import (
	acctsvc "brickshare-backend/internal/application/accounts"
	eventsvc "brickshare-backend/internal/application/events"
	incomesvc "brickshare-backend/internal/application/income"
	regsvc "brickshare-backend/internal/application/registry"
	sharesvc "brickshare-backend/internal/application/shares"
	tradesvc "brickshare-backend/internal/application/trading"
	treasvc "brickshare-backend/internal/application/treasury"
	walletsvc "brickshare-backend/internal/application/wallet"
	"brickshare-backend/internal/config"
	"brickshare-backend/internal/infrastructure/database"
	accthandler "brickshare-backend/internal/interfaces/handlers/accounts"
	eventhandler "brickshare-backend/internal/interfaces/handlers/events"
	healthhandler "brickshare-backend/internal/interfaces/handlers/health"
	incomehandler "brickshare-backend/internal/interfaces/handlers/income"
	payhandler "brickshare-backend/internal/interfaces/handlers/payments"
	reghandler "brickshare-backend/internal/interfaces/handlers/registry"
	tradehandler "brickshare-backend/internal/interfaces/handlers/trading"
	treahandler "brickshare-backend/internal/interfaces/handlers/treasury"
	wallethandler "brickshare-backend/internal/interfaces/handlers/wallet"
	"brickshare-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
	}

	// Stripe webhook mounted before the session middleware; the handler reads
	// the raw body and the Stripe-Signature header.
	stripeWebhook := &payhandler.WebhookHandler{DB: db, WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", stripeWebhook.HandleWebhook)

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb}
	if db != nil {
		hh.DB = &gormDBPinger{db: db}
	}
	app.Get("/health/json", hh.JSON)

	accountService := &acctsvc.Service{DB: db, AdminEmail: cfg.AdminEmail}
	registryService := &regsvc.Service{DB: db}
	shareService := &sharesvc.Service{DB: db}
	tradingService := &tradesvc.Service{DB: db, OfferLifetime: cfg.OfferLifetime}
	incomeService := &incomesvc.Service{DB: db}
	treasuryService := &treasvc.Service{DB: db}
	walletService := &walletsvc.Service{DB: db}
	eventService := &eventsvc.Service{DB: db}

	ah := &accthandler.Handlers{Service: accountService, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	wh := &wallethandler.Handlers{
		Service:       walletService,
		StripeCreator: &wallethandler.RealStripeCreator{SecretKey: cfg.StripeSecretKey},
	}
	walletGroup := app.Group("/api/v1/wallet", middleware.RequireAuth())
	walletGroup.Get("/", wh.Balance)
	walletGroup.Post("/deposit", wh.Deposit)
	walletGroup.Post("/withdraw", wh.Withdraw)

	rh := &reghandler.Handlers{Service: registryService, Shares: shareService}
	th := &tradehandler.Handlers{Service: tradingService}
	ih := &incomehandler.Handlers{Service: incomeService}
	eh := &eventhandler.Handlers{Service: eventService}

	props := app.Group("/api/v1/properties")
	props.Get("/count", rh.Count)
	props.Get("/", rh.List)
	props.Get("/:id", rh.Get)
	props.Get("/:id/deed", rh.DeedOwner)
	props.Get("/:id/shares/:account", rh.UserShares)
	props.Get("/:id/offers", th.ListPropertyOffers)
	props.Get("/:id/dividends", ih.Unclaimed)
	props.Get("/:id/dividends/:account", ih.Calculate)
	props.Get("/:id/events", eh.ListByProperty)
	props.Post("/", middleware.RequireAuth(), rh.Register)
	props.Post("/:id/purchase", middleware.RequireAuth(), th.Purchase)
	props.Post("/:id/income", middleware.RequireAuth(), ih.Deposit)
	props.Post("/:id/claim", middleware.RequireAuth(), ih.Claim)
	props.Post("/:id/verify", middleware.RequireAuth(), middleware.RequireAdmin(), rh.Verify)
	props.Patch("/:id/status", middleware.RequireAuth(), middleware.RequireAdmin(), rh.UpdateStatus)

	offers := app.Group("/api/v1/offers")
	offers.Get("/count", th.CountOffers)
	offers.Get("/:id", th.GetOffer)
	offers.Post("/", middleware.RequireAuth(), th.CreateOffer)
	offers.Post("/:id/accept", middleware.RequireAuth(), th.AcceptOffer)
	offers.Post("/:id/cancel", middleware.RequireAuth(), th.CancelOffer)

	accounts := app.Group("/api/v1/accounts")
	accounts.Get("/:id/properties", rh.ListByOwner)
	accounts.Get("/:id/deeds", rh.DeedCount)

	trh := &treahandler.Handlers{Service: treasuryService}
	platform := app.Group("/api/v1/platform")
	platform.Get("/fee", trh.Fee)
	platform.Get("/fees", trh.Fees)
	platform.Patch("/fee", middleware.RequireAuth(), middleware.RequireAdmin(), trh.UpdateFee)
	platform.Post("/fees/withdraw", middleware.RequireAuth(), middleware.RequireAdmin(), trh.Withdraw)

	return app, db, rdb, nil
}
