package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/mrsingh-rishi/voice-scribe/model"
)

const (
	recordKeyPrefix  = "transcript:"
	historyKeyPrefix = "history:"
)

// RedisStore keeps each record as JSON under transcript:<id> and indexes
// it in a per-owner sorted set history:<owner> scored by creation time,
// so newest-first listing is a reverse range.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection with a
// ping before returning the handle.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, now: time.Now}, nil
}

func recordKey(id string) string       { return recordKeyPrefix + id }
func historyKey(ownerID string) string { return historyKeyPrefix + ownerID }

func (s *RedisStore) Create(ctx context.Context, ownerID, text, mimeType string) (model.Transcription, error) {
	rec := model.Transcription{
		ID:        uuid.NewString(),
		Text:      text,
		OwnerID:   ownerID,
		MimeType:  mimeType,
		CreatedAt: s.now().UTC(),
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return model.Transcription{}, fmt.Errorf("marshal transcription: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(rec.ID), payload, 0)
	pipe.ZAdd(ctx, historyKey(ownerID), redis.Z{
		Score:  float64(rec.CreatedAt.UnixNano()),
		Member: rec.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return model.Transcription{}, fmt.Errorf("save transcription: %w", err)
	}

	return rec, nil
}

func (s *RedisStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Transcription, error) {
	ids, err := s.client.ZRevRange(ctx, historyKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list history index: %w", err)
	}
	if len(ids) == 0 {
		return []model.Transcription{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch history records: %w", err)
	}

	records := make([]model.Transcription, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a record; skip the orphan.
			continue
		}
		var rec model.Transcription
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode transcription record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, id, ownerID string) error {
	raw, err := s.client.Get(ctx, recordKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("fetch transcription %s: %w", id, err)
	}

	var rec model.Transcription
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("decode transcription record: %w", err)
	}
	if rec.OwnerID != ownerID {
		return ErrNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recordKey(id))
	pipe.ZRem(ctx, historyKey(ownerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete transcription %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
