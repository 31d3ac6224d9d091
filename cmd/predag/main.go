package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comdex-official/PRED-AG/internal/api"
	"github.com/comdex-official/PRED-AG/internal/config"
	"github.com/comdex-official/PRED-AG/internal/evidence"
	"github.com/comdex-official/PRED-AG/internal/resolve"
	"github.com/comdex-official/PRED-AG/internal/scraper"
	"github.com/comdex-official/PRED-AG/internal/service"
	"github.com/comdex-official/PRED-AG/internal/store"
	"github.com/comdex-official/PRED-AG/internal/sweeper"
	"github.com/comdex-official/PRED-AG/internal/synth"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	baseLog := logrus.WithField("app", "predag")

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Printf("waiting for db: attempt %d, err: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("could not connect to db: %v", err)
	}

	// ensure tables exist (run migrations)
	if err := store.RunMigrations(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	var cache service.HeadlineCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			baseLog.Warnf("redis ping failed, headline cache disabled: %v", err)
		} else {
			cache = service.NewRedisHeadlineCache(rdb)
		}
	}

	repo := store.NewPgStore(db)

	httpClient := &http.Client{Timeout: 20 * time.Second}
	scr := scraper.New(cfg.TopicSources(), httpClient, cfg.Scrape.HeadlineLimit, baseLog.WithField("component", "scraper"))
	ev := evidence.NewClient(cfg.Evidence.BaseURL, cfg.Evidence.APIKey, httpClient, baseLog.WithField("component", "evidence"))
	if cfg.Evidence.APIKey == "" {
		baseLog.Warn("NEWS_API_KEY not set: questions will stay pending until resolved manually")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	synthesizer := synth.New(rng, baseLog.WithField("component", "synth"))
	engine := resolve.NewEngine(cfg.Resolution.ConfidenceThreshold, baseLog.WithField("component", "resolve"))

	svc := service.NewService(repo, cache, scr, ev, synthesizer, engine, cfg.Scrape.Cooldown, baseLog.WithField("component", "service"))

	sw := sweeper.New(svc, cfg.Resolution.SweepInterval, baseLog.WithField("component", "sweeper"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sw.Start(ctx)
	defer sw.Stop()

	handler := api.NewHandler(svc)

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	baseLog.Infof("listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
