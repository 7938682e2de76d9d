package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"lodgebook/internal/app/ledger"
	appoutbox "lodgebook/internal/app/outbox"
	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/client"
	"lodgebook/internal/domain/listing"
	"lodgebook/internal/domain/shared/money"
	"lodgebook/internal/infra/broker/kafka"
	"lodgebook/internal/infra/config"
	mongodb "lodgebook/internal/infra/db/mongo"
	ginserver "lodgebook/internal/infra/http/gin"
	"lodgebook/internal/infra/obs"
	infraoutbox "lodgebook/internal/infra/outbox"
	"lodgebook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if cfg.ListingFixtures != "" {
		if err := loadListingFixtures(ctx, app.listings, cfg, logger); err != nil {
			logger.Warn("listing fixtures load failed", "error", err, "path", cfg.ListingFixtures)
		}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type listingSeeder interface {
	Put(ctx context.Context, l *listing.Listing) error
}

type application struct {
	handlers ginserver.Handlers
	listings listingSeeder
	worker   *infraoutbox.Worker
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		listings listing.Store
		clients  client.Store
		seeder   listingSeeder
		box      appoutbox.Outbox
		worker   *infraoutbox.Worker
		ready    = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "mongo":
		mc, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		listingStore := mongodb.NewListingStore(mc.DB)
		listings = listingStore
		seeder = listingStore
		clients = mongodb.NewClientStore(mc.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return mc.Ping(pingCtx)
		}

		store := infraoutbox.NewStore(mc.DB)
		box = store
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka connect: %w", err)
			}
			worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				ID:          "lodgebook-" + uuid.NewString(),
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("KAFKA_BROKERS not set, outbox events will accumulate unsent")
		}
	default:
		listingStore := memory.NewListingStore()
		listings = listingStore
		seeder = listingStore
		clients = memory.NewClientStore()
		box = memory.NewOutbox()
	}

	svc := &ledger.Service{
		Listings: listings,
		Clients:  clients,
		Outbox:   box,
		Encoder:  appoutbox.JSONEventEncoder{},
		Policy: booking.QuotePolicy{
			DepositPercent:       cfg.DepositPercent,
			BalanceDueOffsetDays: cfg.BalanceDueOffsetDays,
		},
		AppendRetries: cfg.AppendRetries,
		Logger:        logger,
	}

	return application{
		handlers: ginserver.Handlers{
			Booking:      ginserver.BookingHandler{Ledger: svc},
			Availability: ginserver.AvailabilityHandler{Ledger: svc},
			Listing:      ginserver.ListingHandler{Listings: listings},
			Client:       ginserver.ClientHandler{Clients: clients},
		},
		listings: seeder,
		worker:   worker,
		ready:    ready,
	}, nil
}

type listingFixture struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Market           string `json:"market"`
	Country          string `json:"country"`
	PropertyType     string `json:"property_type"`
	Bedrooms         int    `json:"bedrooms"`
	Accommodates     int    `json:"accommodates"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	CleaningFeeCents int64  `json:"cleaning_fee_cents"`
}

func loadListingFixtures(ctx context.Context, seeder listingSeeder, cfg config.Config, logger *slog.Logger) error {
	data, err := os.ReadFile(cfg.ListingFixtures)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		l, err := listing.New(listing.CreateParams{
			ID:           listing.ListingID(fx.ID),
			Title:        fx.Title,
			Description:  fx.Description,
			Market:       fx.Market,
			Country:      fx.Country,
			PropertyType: fx.PropertyType,
			Bedrooms:     fx.Bedrooms,
			Accommodates: fx.Accommodates,
			NightlyRate:  money.Money{Amount: fx.NightlyRateCents, Currency: cfg.Currency},
			CleaningFee:  money.Money{Amount: fx.CleaningFeeCents, Currency: cfg.Currency},
			Now:          now,
		})
		if err != nil {
			logger.Error("fixture invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		if err := seeder.Put(ctx, l); err != nil {
			logger.Error("cannot store fixture listing", "listing_id", fx.ID, "error", err)
			continue
		}
		logger.Info("listing fixture imported", "listing_id", l.ID)
	}
	return nil
}
