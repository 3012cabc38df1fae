package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opsych/ophtheon/internal/model"
)

// ExamCache holds live exam sessions in Redis between import, narration
// synthesis and the timed run.
type ExamCache interface {
	Set(ctx context.Context, exam *model.ExamSession) error
	Get(ctx context.Context, id string) (*model.ExamSession, error)
	Delete(ctx context.Context, id string) error
}

type examCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExamCache creates a new exam session cache
func NewExamCache(client *redis.Client) ExamCache {
	return &examCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *examCache) key(id string) string {
	return fmt.Sprintf("exam:%s", id)
}

func (c *examCache) Set(ctx context.Context, exam *model.ExamSession) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(exam.ID), data, c.ttl).Err()
}

func (c *examCache) Get(ctx context.Context, id string) (*model.ExamSession, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var exam model.ExamSession
	if err := json.Unmarshal([]byte(data), &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

func (c *examCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
