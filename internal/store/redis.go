package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Redis keeps snapshots with a TTL so stale pages age out on their own.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Save(ctx context.Context, snap models.ScanSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, makeKey(snap.PageURL), payload, r.ttl).Err()
}

func (r *Redis) Latest(ctx context.Context, pageURL string) (models.ScanSnapshot, bool, error) {
	raw, err := r.client.Get(ctx, makeKey(pageURL)).Result()
	if errors.Is(err, redis.Nil) {
		return models.ScanSnapshot{}, false, nil
	}
	if err != nil {
		return models.ScanSnapshot{}, false, err
	}

	var snap models.ScanSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return models.ScanSnapshot{}, false, err
	}
	return snap, true, nil
}

func (r *Redis) ApplyEnrichment(ctx context.Context, pageURL string, generation uint64, videos []models.VideoRecord) (bool, error) {
	snap, ok, err := r.Latest(ctx, pageURL)
	if err != nil || !ok {
		return false, err
	}
	if snap.Generation != generation {
		return false, nil
	}
	snap.Videos = videos
	return true, r.Save(ctx, snap)
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func makeKey(pageURL string) string {
	hash := sha256.Sum256([]byte(pageURL))
	return "snapshot:" + hex.EncodeToString(hash[:])
}
