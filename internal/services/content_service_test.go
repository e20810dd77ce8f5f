package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/validator"
)

func newContentFixture(pages *mockPageRepo) ContentService {
	repo := &mockRepository{page: pages}
	return NewContentService(repo, validator.New(), cache.NewCacheManager(nil), testLogger())
}

func TestCreatePage(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and records the owner", func(t *testing.T) {
		pages := newMockPageRepo()
		svc := newContentFixture(pages)

		page, err := svc.CreatePage(ctx, 7, PageCreateRequest{
			Slug:      "about-us",
			Title:     "About Us",
			Content:   []map[string]any{{"type": "hero", "text": "Welcome"}},
			Published: true,
		})
		if err != nil {
			t.Fatalf("CreatePage() error = %v", err)
		}
		if page.CreatedBy != 7 {
			t.Errorf("CreatedBy = %d, want 7", page.CreatedBy)
		}
		if !page.Published {
			t.Error("expected page to be published")
		}
	})

	t.Run("duplicate slug", func(t *testing.T) {
		pages := newMockPageRepo(&models.Page{ID: 1, Slug: "about-us", Title: "About Us"})
		svc := newContentFixture(pages)

		_, err := svc.CreatePage(ctx, 7, PageCreateRequest{Slug: "about-us", Title: "Other"})
		if !errors.Is(err, ErrSlugTaken) {
			t.Errorf("CreatePage() error = %v, want ErrSlugTaken", err)
		}
	})
}

func TestPageOwnership(t *testing.T) {
	ctx := context.Background()

	owner := &models.User{ID: 7, Name: "Owner"}
	editor := &models.User{ID: 8, Name: "Editor", Roles: []*models.Role{{
		Name:        "content_editor",
		Permissions: []*models.Permission{{Name: "edit_pages"}},
	}}}
	outsider := &models.User{ID: 9, Name: "Outsider", Roles: []*models.Role{{Name: "teacher"}}}
	superAdmin := &models.User{ID: 10, Name: "Root", Roles: []*models.Role{{Name: models.SuperAdminRole}}}

	newPages := func() *mockPageRepo {
		return newMockPageRepo(&models.Page{ID: 1, Slug: "about-us", Title: "About Us", CreatedBy: 7})
	}

	title := "Renamed"

	t.Run("owner can edit", func(t *testing.T) {
		svc := newContentFixture(newPages())
		page, err := svc.UpdatePage(ctx, owner, 1, PageUpdateRequest{Title: &title})
		if err != nil {
			t.Fatalf("UpdatePage() error = %v", err)
		}
		if page.Title != "Renamed" {
			t.Errorf("Title = %s, want Renamed", page.Title)
		}
	})

	t.Run("delegated editor can edit", func(t *testing.T) {
		svc := newContentFixture(newPages())
		if _, err := svc.UpdatePage(ctx, editor, 1, PageUpdateRequest{Title: &title}); err != nil {
			t.Errorf("UpdatePage() error = %v", err)
		}
	})

	t.Run("super_admin can edit", func(t *testing.T) {
		svc := newContentFixture(newPages())
		if _, err := svc.UpdatePage(ctx, superAdmin, 1, PageUpdateRequest{Title: &title}); err != nil {
			t.Errorf("UpdatePage() error = %v", err)
		}
	})

	t.Run("outsider is denied", func(t *testing.T) {
		svc := newContentFixture(newPages())
		_, err := svc.UpdatePage(ctx, outsider, 1, PageUpdateRequest{Title: &title})
		var perr *PermissionError
		if !errors.As(err, &perr) {
			t.Fatalf("UpdatePage() error = %v, want PermissionError", err)
		}
		if perr.Resource != "pages" || perr.Action != "edit" {
			t.Errorf("PermissionError = %+v, want pages/edit", perr)
		}
	})

	t.Run("nil actor is denied", func(t *testing.T) {
		svc := newContentFixture(newPages())
		var perr *PermissionError
		if _, err := svc.UpdatePage(ctx, nil, 1, PageUpdateRequest{Title: &title}); !errors.As(err, &perr) {
			t.Errorf("UpdatePage() error = %v, want PermissionError", err)
		}
	})

	t.Run("delete follows the same rule", func(t *testing.T) {
		pages := newPages()
		svc := newContentFixture(pages)

		var perr *PermissionError
		if err := svc.DeletePage(ctx, outsider, 1); !errors.As(err, &perr) {
			t.Fatalf("DeletePage() error = %v, want PermissionError", err)
		}
		if err := svc.DeletePage(ctx, owner, 1); err != nil {
			t.Fatalf("DeletePage() by owner error = %v", err)
		}
		if len(pages.deleted) != 1 {
			t.Errorf("deleted = %v, want [1]", pages.deleted)
		}
	})

	t.Run("unknown page", func(t *testing.T) {
		svc := newContentFixture(newPages())
		if _, err := svc.UpdatePage(ctx, owner, 404, PageUpdateRequest{Title: &title}); !errors.Is(err, ErrPageNotFound) {
			t.Errorf("UpdatePage() error = %v, want ErrPageNotFound", err)
		}
	})
}

func TestPublishedPages(t *testing.T) {
	ctx := context.Background()
	pages := newMockPageRepo(
		&models.Page{ID: 1, Slug: "about-us", Published: true},
		&models.Page{ID: 2, Slug: "draft", Published: false},
	)
	svc := newContentFixture(pages)

	published, err := svc.PublishedPages(ctx)
	if err != nil {
		t.Fatalf("PublishedPages() error = %v", err)
	}
	if len(published) != 1 || published[0].Slug != "about-us" {
		t.Errorf("PublishedPages() = %v, want the single published page", published)
	}
}

// The public listing is served from the short-lived cache; a page mutation
// must drop the entry so the next read reflects the change instead of
// serving the stale listing until the TTL runs out.
func TestPublishedPagesCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	pages := newMockPageRepo(
		&models.Page{ID: 1, Slug: "about-us", Title: "About Us", Published: true, CreatedBy: 7},
	)
	repo := &mockRepository{page: pages}
	svc := NewContentService(repo, validator.New(), cache.NewCacheManager(client), testLogger())

	if _, err := svc.PublishedPages(ctx); err != nil {
		t.Fatalf("PublishedPages() error = %v", err)
	}

	// The second read is served from cache even though the store changed.
	pages.pages[1].Title = "Edited Behind The Cache"
	cached, err := svc.PublishedPages(ctx)
	if err != nil {
		t.Fatalf("PublishedPages() error = %v", err)
	}
	if len(cached) != 1 || cached[0].Title != "About Us" {
		t.Fatalf("expected the cached listing, got %+v", cached)
	}

	owner := &models.User{ID: 7}
	title := "About Our School"
	if _, err := svc.UpdatePage(ctx, owner, 1, PageUpdateRequest{Title: &title}); err != nil {
		t.Fatalf("UpdatePage() error = %v", err)
	}

	fresh, err := svc.PublishedPages(ctx)
	if err != nil {
		t.Fatalf("PublishedPages() error = %v", err)
	}
	if len(fresh) != 1 || fresh[0].Title != "About Our School" {
		t.Errorf("listing after update = %+v, want the edited title", fresh)
	}
}
