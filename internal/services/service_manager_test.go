package services

import (
	"context"
	"testing"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/events"
	"github.com/pesantren-digital/school-service/internal/validator"
)

func TestServiceManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	publisher := events.NewMockEventPublisher(testLogger())
	sm := NewServiceManager(&mockRepository{}, validator.New(), cache.NewCacheManager(nil), publisher, testLogger(), testJWTConfig, nil)

	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	// Idempotent.
	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}

	if sm.Auth() == nil {
		t.Error("Auth() should be wired after Initialize")
	}
	if sm.User() == nil {
		t.Error("User() should be wired after Initialize")
	}
	if sm.Attendance() == nil {
		t.Error("Attendance() should be wired after Initialize")
	}
	if sm.Progress() == nil {
		t.Error("Progress() should be wired after Initialize")
	}
	if sm.Content() == nil {
		t.Error("Content() should be wired after Initialize")
	}
	if sm.Export() == nil {
		t.Error("Export() should be wired after Initialize")
	}

	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestServiceManagerPanicsBeforeInitialize(t *testing.T) {
	sm := NewServiceManager(&mockRepository{}, validator.New(), cache.NewCacheManager(nil), events.NewMockEventPublisher(testLogger()), testLogger(), testJWTConfig, nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when accessing services before Initialize")
		}
	}()
	sm.Auth()
}
