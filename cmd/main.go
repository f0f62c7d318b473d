package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"fourcastr/internal/adapters/clickhouse"
	"fourcastr/internal/adapters/config"
	"fourcastr/internal/adapters/errors/noop"
	"fourcastr/internal/adapters/errors/sentry"
	"fourcastr/internal/adapters/kafka"
	"fourcastr/internal/adapters/postgres"
	"fourcastr/internal/adapters/redis"
	"fourcastr/internal/domain/astro"
	"fourcastr/internal/domain/rating"
	"fourcastr/internal/metrics"
	chrepo "fourcastr/internal/repository/clickhouse"
	pgrepo "fourcastr/internal/repository/postgres"
	redisrepo "fourcastr/internal/repository/redis"
	"fourcastr/internal/services/scanner"
	"fourcastr/pkg/errors"
	"fourcastr/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	tickers := parseTickers(os.Args[1:])
	if len(tickers) == 0 {
		log.Error("No tickers given. Usage: fourcastr SYMBOL[:category] ...")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Bar history is the one hard dependency
	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Fatalf("Failed to connect to ClickHouse: %v", err)
	}
	defer chClient.Close()
	barRepo := chrepo.NewBarRepository(chClient.Conn())

	// Calendar feed is optional; evaluations degrade to neutral
	// seasonal and aspect scores without it
	var eventRepo astro.Repository
	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Warnf("PostgreSQL unavailable, calendar scoring neutral: %v", err)
	} else {
		defer pgClient.Close()
		eventRepo = pgrepo.NewEventRepository(pgClient.DB())
	}

	var cache *redisrepo.RatingCache
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Redis unavailable, ratings not cached: %v", err)
	} else {
		defer redisClient.Close()
		ttl := time.Duration(cfg.Scanner.CacheTTLHours) * time.Hour
		cache = redisrepo.NewRatingCache(redisClient.Client(), ttl)
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
		defer producer.Close()
	}

	scan := scanner.NewScanner(barRepo, eventRepo, cfg, astro.DefaultSectorProfiles(), log)

	windowEnd := time.Now().UTC().AddDate(0, 0, cfg.Scanner.ForecastWindowDays)

	ratings, err := scan.ScanBatch(ctx, tickers, windowEnd)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	topic := cfg.Scanner.RatingsTopic
	if topic == "" {
		topic = kafka.TopicRatingComputed
	}
	for i := range ratings {
		publishRating(ctx, &ratings[i], cache, producer, topic, log)
	}

	printRatings(ratings)

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	_ = errorTracker.Flush(flushCtx)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// parseTickers reads SYMBOL[:category] arguments
func parseTickers(args []string) []scanner.Ticker {
	var tickers []scanner.Ticker
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		t := scanner.Ticker{Symbol: arg}
		if idx := strings.IndexByte(arg, ':'); idx > 0 {
			t.Symbol = arg[:idx]
			t.Category = arg[idx+1:]
		}
		tickers = append(tickers, t)
	}
	return tickers
}

// publishRating caches the rating and publishes it downstream; both
// sinks are best effort
func publishRating(
	ctx context.Context,
	r *rating.TickerRating,
	cache *redisrepo.RatingCache,
	producer *kafka.Producer,
	topic string,
	log *logger.Logger,
) {
	if cache != nil {
		if err := cache.Save(ctx, r); err != nil {
			log.Warnf("Failed to cache rating for %s: %v", r.Symbol, err)
		}
	}
	if producer != nil {
		if err := producer.Publish(ctx, topic, r.Symbol, r); err != nil {
			log.Warnf("Failed to publish rating for %s: %v", r.Symbol, err)
		}
		if r.Forecast != nil {
			if err := producer.Publish(ctx, kafka.TopicForecastAccepted, r.Symbol, r.Forecast); err != nil {
				log.Warnf("Failed to publish forecast for %s: %v", r.Symbol, err)
			}
		}
	}
}

// printRatings writes a human-readable summary to stdout
func printRatings(ratings []rating.TickerRating) {
	if len(ratings) == 0 {
		fmt.Println("No ratings produced.")
		return
	}

	for _, r := range ratings {
		total := decimal.NewFromFloat(r.Scores.Total).Round(1)
		price := humanize.CommafWithDigits(r.CurrentPrice, 4)

		fmt.Printf("%-12s %5s  grade=%-2s  conf=%-11s  rec=%-4s  price=%s\n",
			r.Symbol, total.String(), r.Grade, r.Confidence, r.Recommendation, price)

		if r.Forecast != nil {
			fprice := humanize.CommafWithDigits(r.Forecast.Candidate.Price, 4)
			fmt.Printf("  forecast: %s on %s (%d methods, signal %s, bits %s)\n",
				fprice,
				r.Forecast.Candidate.Date.Format("2006-01-02"),
				len(r.Forecast.Candidate.Methods),
				r.Forecast.State.TradeSignal,
				r.Forecast.State.BitString,
			)
		}
		for _, w := range r.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
}
