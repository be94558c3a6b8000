//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"servihub/internal/domain/model"
	"servihub/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

func TestPlanRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	plan := &model.SubscriptionPlan{ID: "plan-123", Name: "Monthly", DurationDays: 30, Price: 29900, Active: true}
	planJSON, _ := json.Marshal(plan)

	t.Run("FindByID should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(planJSON), nil
			},
		}
		innerRepoCalled := false
		mockInnerRepo := &mockInnerPlanRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
				innerRepoCalled = true
				return nil, nil
			},
		}

		decorator := NewPlanRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		result, err := decorator.FindByID(ctx, nil, "plan-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerRepoCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if result == nil || result.ID != "plan-123" || result.Price != 29900 {
			t.Error("did not return the correct plan from cache")
		}
	})

	t.Run("FindByID should fall through and fill the cache on miss", func(t *testing.T) {
		var setKey string
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				return nil
			},
		}
		mockInnerRepo := &mockInnerPlanRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
				return plan, nil
			},
		}

		decorator := NewPlanRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		result, err := decorator.FindByID(ctx, nil, "plan-123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result == nil || result.ID != "plan-123" {
			t.Error("did not return the plan from the inner repository")
		}
		if setKey != "plan:plan-123" {
			t.Errorf("cache was not filled, set key %q", setKey)
		}
	})

	t.Run("Save should invalidate the cache", func(t *testing.T) {
		var deletedKeys []string
		mockRedis := &mockRedisClient{
			DelFunc: func(ctx context.Context, keys ...string) error {
				deletedKeys = append(deletedKeys, keys...)
				return nil
			},
		}
		mockInnerRepo := &mockInnerPlanRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
				return nil
			},
		}

		decorator := NewPlanRepoCacheDecorator(mockInnerRepo, mockRedis, time.Hour)

		if err := decorator.Save(ctx, nil, plan); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(deletedKeys) != 3 {
			t.Fatalf("expected 3 keys to be deleted, but got %d", len(deletedKeys))
		}
	})
}
