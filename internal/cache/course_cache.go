package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"studyboard/internal/model"
)

const courseListKey = "studyboard:courses"

// CourseCache holds the full course list. Any course write drops it.
type CourseCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCourseCache(client *redisv9.Client, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CourseCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *CourseCache) GetCourses(ctx context.Context) ([]model.Course, bool, error) {
	raw, err := c.client.Get(ctx, courseListKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get courses failed: %w", err)
	}

	var courses []model.Course
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached courses failed: %w", err)
	}
	return courses, true, nil
}

func (c *CourseCache) SetCourses(ctx context.Context, courses []model.Course) error {
	payload, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("marshal course cache failed: %w", err)
	}
	if err := c.client.Set(ctx, courseListKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set courses failed: %w", err)
	}
	return nil
}

func (c *CourseCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, courseListKey).Err(); err != nil {
		return fmt.Errorf("redis delete courses failed: %w", err)
	}
	return nil
}
