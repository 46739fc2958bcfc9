package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ZR1ck/Auth-Service/internal/auth"
	"github.com/ZR1ck/Auth-Service/internal/config"
	"github.com/ZR1ck/Auth-Service/internal/httpapi"
	"github.com/ZR1ck/Auth-Service/internal/obs"
	"github.com/ZR1ck/Auth-Service/internal/store/pg"
	"github.com/ZR1ck/Auth-Service/internal/store/redisledger"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	// .env is a dev convenience; a missing file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.PGDSN == "" {
		log.Fatal("config: DATABASE_URL must be set")
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	store, err := pg.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	defer store.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	ledger := redisledger.New(rdb)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := ledger.Ping(pingCtx); err != nil {
		pingCancel()
		log.Fatalf("redis ping: %v", err)
	}
	pingCancel()

	accessCodec, err := auth.NewCodec(cfg.AccessSecret, cfg.AccessTTL, cfg.Issuer)
	if err != nil {
		log.Fatalf("access codec: %v", err)
	}
	refreshCodec, err := auth.NewCodec(cfg.RefreshSecret, cfg.RefreshTTL, cfg.Issuer)
	if err != nil {
		log.Fatalf("refresh codec: %v", err)
	}

	tokens := auth.NewTokenService(accessCodec, refreshCodec, ledger)
	accounts := auth.NewService(store, tokens, ledger)

	api := httpapi.New(
		accounts,
		tokens,
		httpapi.DefaultPermissionTable(),
		httpapi.ReadyProbe{DB: store.DB(), Ledger: ledger},
		version,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting auth-service %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
