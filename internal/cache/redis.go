package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Read-model cache keys
const (
	ListingsKey       = "apartments:listings"
	DetailsKeyFmt     = "apartment:%s:details"
	PaymentInfoKeyFmt = "apartment:%s:payment-info"
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	key := hashCredentials(email, password)
	staffID, err := client.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return staffID, true
}

// CacheAuth caches valid credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password string, staffID int64) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Set(ctx, key, staffID, 15*time.Minute)
}

// ============================================
// Read Model Cache Functions
// ============================================

// GetCachedListings returns the cached listing page if available
func GetCachedListings(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, ListingsKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheListings caches the listing page for 5 minutes
func CacheListings(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, ListingsKey, data, 5*time.Minute)
}

// GetCachedDetails returns a cached apartment details view if available
func GetCachedDetails(ctx context.Context, unitCode string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(DetailsKeyFmt, unitCode)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheDetails caches an apartment details view for 2 minutes
func CacheDetails(ctx context.Context, unitCode string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(DetailsKeyFmt, unitCode), data, 2*time.Minute)
}

// InvalidateApartment clears every cached view touching a unit. Called on
// any mutation of the unit or the entities joined into its views.
func InvalidateApartment(ctx context.Context, unitCode string) {
	if client == nil {
		return
	}
	client.Del(ctx, ListingsKey,
		fmt.Sprintf(DetailsKeyFmt, unitCode),
		fmt.Sprintf(PaymentInfoKeyFmt, unitCode))
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Cache stores data under a key with a TTL
func Cache(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}
