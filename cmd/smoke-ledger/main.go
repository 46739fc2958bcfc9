package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ZR1ck/Auth-Service/internal/store/redisledger"
)

// Round-trips a fake refresh token through the revocation ledger
// against a live Redis: record, probe, revoke, probe again.
func main() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()

	ledger := redisledger.New(rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ledger.Ping(ctx); err != nil {
		log.Fatalf("ping redis at %s: %v", addr, err)
	}

	token := "smoke-" + uuid.NewString()

	if err := ledger.Put(ctx, "0", token, 30*time.Second); err != nil {
		log.Fatalf("put: %v", err)
	}
	live, err := ledger.Exists(ctx, token)
	if err != nil {
		log.Fatalf("exists after put: %v", err)
	}
	if !live {
		log.Fatal("token missing right after put")
	}

	if err := ledger.Delete(ctx, token); err != nil {
		log.Fatalf("delete: %v", err)
	}
	live, err = ledger.Exists(ctx, token)
	if err != nil {
		log.Fatalf("exists after delete: %v", err)
	}
	if live {
		log.Fatal("token still live after delete")
	}

	// Deleting an absent entry must stay a no-op.
	if err := ledger.Delete(ctx, token); err != nil {
		log.Fatalf("repeat delete: %v", err)
	}

	fmt.Println("ledger smoke test passed")
}
