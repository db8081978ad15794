package cache

import (
	"context"
	"fmt"
	"time"

	"Framecast/db"
)

// renderLockTTL bounds how long a crashed render can hold its lock.
const renderLockTTL = 30 * time.Minute

// RenderLockKey builds the Redis key guarding renders of one project.
func RenderLockKey(projectID int64) string {
	return fmt.Sprintf("render:lock:%d", projectID)
}

// AcquireRenderLock takes the per-project render lock. Returns false when
// another render of the same project is already in flight.
func AcquireRenderLock(ctx context.Context, projectID int64) (bool, error) {
	if db.RedisClient == nil {
		return false, fmt.Errorf("Redis client not initialized")
	}

	ok, err := db.RedisClient.SetNX(ctx, RenderLockKey(projectID), time.Now().Unix(), renderLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire render lock for project %d: %w", projectID, err)
	}
	return ok, nil
}

// RenderLocker adapts the lock functions to the orchestrator's Locker
// interface.
type RenderLocker struct{}

func (RenderLocker) AcquireRenderLock(ctx context.Context, projectID int64) (bool, error) {
	return AcquireRenderLock(ctx, projectID)
}

func (RenderLocker) ReleaseRenderLock(ctx context.Context, projectID int64) error {
	return ReleaseRenderLock(ctx, projectID)
}

// ReleaseRenderLock releases the per-project render lock.
func ReleaseRenderLock(ctx context.Context, projectID int64) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return db.RedisClient.Del(ctx, RenderLockKey(projectID)).Err()
}
