package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// Stats cache keys. Writers and the invalidator below must build keys through
// these helpers so a rename cannot leave stale entries behind.

func StudentProgressKey(studentID uint) string {
	return fmt.Sprintf("progress:student:%d", studentID)
}

func ClassProgressKey(class, academicYear string) string {
	return fmt.Sprintf("progress:class:%s:%s", class, academicYear)
}

// InvalidateReportCache drops the cached progress aggregates after an
// attendance, grade or student write touching the given student. The class
// aggregates drop wholesale; the writer only knows the student id, not which
// class/year combinations were served from cache.
func InvalidateReportCache(ctx context.Context, cm *CacheManager, studentID uint) {
	SafeDelete(ctx, cm.Stats, StudentProgressKey(studentID))
	SafeInvalidatePattern(ctx, cm.Stats, "progress:class:*")
}

// PublishedPagesKey caches the public site's published-page listing.
const PublishedPagesKey = "pages:published"

// InvalidatePublishedPagesCache drops the listing after any page mutation.
func InvalidatePublishedPagesCache(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Fast, PublishedPagesKey)
}

// InvalidateSettingsCache drops the cached site settings after an update.
func InvalidateSettingsCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Settings, "*")
}
