package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/repository"
)

var (
	devA = "11111111-1111-4111-8111-111111111111"
	devB = "22222222-2222-4222-8222-222222222222"
)

func mustInsert(t *testing.T, repo repository.GameRepository, game *domain.Game) *domain.Game {
	t.Helper()
	created, err := repo.Insert(context.Background(), game)
	if err != nil {
		t.Fatalf("insert %s: %v", game.Name, err)
	}
	return created
}

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newGame(dev, name string, p string, status domain.Status, categories ...domain.Category) *domain.Game {
	if len(categories) == 0 {
		categories = []domain.Category{domain.CategoryAction}
	}
	return &domain.Game{
		DeveloperID: dev,
		Name:        name,
		Price:       price(p),
		Status:      status,
		Categories:  categories,
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := NewGameRepository()
	created := mustInsert(t, repo, newGame(devA, "Starfall", "19.99", domain.StatusDraft))

	if created.ID == "" {
		t.Fatal("insert must assign an id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("insert must assign timestamps")
	}

	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Starfall" || !got.Price.Equal(price("19.99")) {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestInsertConflictOnLiveName(t *testing.T) {
	repo := NewGameRepository()
	mustInsert(t, repo, newGame(devA, "Starfall", "10", domain.StatusDraft))

	_, err := repo.Insert(context.Background(), newGame(devA, "starfall", "10", domain.StatusDraft))
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// A different developer may reuse the name.
	mustInsert(t, repo, newGame(devB, "Starfall", "10", domain.StatusDraft))
}

func TestApplyPatchCoalesce(t *testing.T) {
	repo := NewGameRepository()
	game := newGame(devA, "Starfall", "19.99", domain.StatusDraft)
	game.Description = "a space game"
	game.TrailerURL = "https://cdn/trailer.mp4"
	created := mustInsert(t, repo, game)

	name := "Starfall II"
	empty := ""
	status := domain.StatusPublished
	updated, err := repo.ApplyPatch(context.Background(), created.ID, domain.GamePatch{
		Name:       &name,
		TrailerURL: &empty,
		Status:     &status,
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	if updated.Name != "Starfall II" {
		t.Fatalf("name not patched: %s", updated.Name)
	}
	if updated.Description != "a space game" {
		t.Fatalf("absent field must stay unchanged, got %q", updated.Description)
	}
	if updated.TrailerURL != "" {
		t.Fatalf("empty string must clear trailer_url, got %q", updated.TrailerURL)
	}
	if updated.Status != domain.StatusPublished {
		t.Fatalf("status not patched: %s", updated.Status)
	}
	if !updated.Price.Equal(price("19.99")) {
		t.Fatalf("price must stay unchanged, got %s", updated.Price)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("updated_at must not go backwards")
	}
}

func TestApplyPatchMissingRow(t *testing.T) {
	repo := NewGameRepository()
	name := "x"
	_, err := repo.ApplyPatch(context.Background(), "33333333-3333-4333-8333-333333333333", domain.GamePatch{Name: &name})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSoftDeleteInvisibility(t *testing.T) {
	repo := NewGameRepository()
	created := mustInsert(t, repo, newGame(devA, "Starfall", "10", domain.StatusPublished))
	ctx := context.Background()

	// Wrong owner looks exactly like a missing row.
	ok, err := repo.SoftDelete(ctx, created.ID, devB)
	if err != nil || ok {
		t.Fatalf("wrong owner must return false, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.SoftDelete(ctx, created.ID, devA)
	if err != nil || !ok {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}

	if _, err := repo.GetByID(ctx, created.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("deleted row must be invisible to get, got %v", err)
	}

	_, total, err := repo.Scan(ctx, repository.GameFilter{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if total != 0 {
		t.Fatalf("deleted row must be invisible to scan, total=%d", total)
	}

	if err := repo.RecordPurchase(ctx, created.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("aggregate ops must not touch deleted rows, got %v", err)
	}

	ok, err = repo.SoftDelete(ctx, created.ID, devA)
	if err != nil || ok {
		t.Fatalf("second delete must return false, got ok=%v err=%v", ok, err)
	}
}

func TestFilterConjunction(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()

	mustInsert(t, repo, newGame(devA, "cheap published", "5", domain.StatusPublished))
	mustInsert(t, repo, newGame(devA, "in range published", "15", domain.StatusPublished))
	mustInsert(t, repo, newGame(devA, "boundary low", "10", domain.StatusPublished))
	mustInsert(t, repo, newGame(devA, "boundary high", "20", domain.StatusPublished))
	mustInsert(t, repo, newGame(devA, "in range draft", "15", domain.StatusDraft))
	mustInsert(t, repo, newGame(devA, "expensive published", "25", domain.StatusPublished))

	minPrice := price("10")
	maxPrice := price("20")
	status := domain.StatusPublished
	games, total, err := repo.Scan(ctx, repository.GameFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Status:   &status,
		Limit:    100,
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if total != 3 || len(games) != 3 {
		t.Fatalf("want 3 matches, got total=%d len=%d", total, len(games))
	}
	for _, g := range games {
		if g.Status != domain.StatusPublished {
			t.Fatalf("status constraint violated by %s", g.Name)
		}
		if g.Price.Cmp(minPrice) < 0 || g.Price.Cmp(maxPrice) > 0 {
			t.Fatalf("price constraint violated by %s (%s)", g.Name, g.Price)
		}
	}
}

func TestFilterCategoryOverlapAndQuery(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()

	mustInsert(t, repo, newGame(devA, "Galaxy Racer", "10", domain.StatusPublished,
		domain.CategoryRacing, domain.CategorySports))
	mustInsert(t, repo, newGame(devA, "Dungeon Depths", "10", domain.StatusPublished,
		domain.CategoryRPG))
	mustInsert(t, repo, newGame(devA, "Puzzle Galaxy", "10", domain.StatusPublished,
		domain.CategoryPuzzle))

	// Overlap, not subset: asking for racing+rpg matches both games that
	// carry either one.
	games, total, err := repo.Scan(ctx, repository.GameFilter{
		Categories: []domain.Category{domain.CategoryRacing, domain.CategoryRPG},
		Limit:      100,
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if total != 2 {
		t.Fatalf("want overlap to match 2 rows, got %d", total)
	}
	for _, g := range games {
		if g.Name == "Puzzle Galaxy" {
			t.Fatal("category overlap matched a non-overlapping row")
		}
	}

	// Token match is case-insensitive.
	_, total, err = repo.Scan(ctx, repository.GameFilter{Query: "GALAXY", Limit: 100})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if total != 2 {
		t.Fatalf("query should match 2 rows, got %d", total)
	}

	_, total, err = repo.Scan(ctx, repository.GameFilter{Query: "galaxy racer", Limit: 100})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if total != 1 {
		t.Fatalf("all tokens must match, got %d", total)
	}
}

func TestFilterOwnerDimension(t *testing.T) {
	repo := NewGameRepository()
	mustInsert(t, repo, newGame(devA, "A game", "10", domain.StatusPublished))
	mustInsert(t, repo, newGame(devB, "B game", "10", domain.StatusPublished))

	games, total, err := repo.Scan(context.Background(), repository.GameFilter{DeveloperID: devB, Limit: 100})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if total != 1 || games[0].DeveloperID != devB {
		t.Fatalf("owner filter failed: total=%d", total)
	}
}

func TestPaginationConsistency(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()

	inserted := make(map[string]bool, 250)
	for i := 0; i < 250; i++ {
		g := mustInsert(t, repo, newGame(devA, fmt.Sprintf("game-%03d", i), "10", domain.StatusPublished))
		inserted[g.ID] = true
	}

	var all []domain.Game
	wantLens := []int{100, 100, 50}
	for page, offset := range []int{0, 100, 200} {
		games, total, err := repo.Scan(ctx, repository.GameFilter{Limit: 100, Offset: offset})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if total != 250 {
			t.Fatalf("page %d: total drifted to %d", page, total)
		}
		if len(games) != wantLens[page] {
			t.Fatalf("page %d: want %d items, got %d", page, wantLens[page], len(games))
		}
		all = append(all, games...)
	}

	seen := make(map[string]bool, len(all))
	for _, g := range all {
		if seen[g.ID] {
			t.Fatalf("duplicate across pages: %s", g.ID)
		}
		if !inserted[g.ID] {
			t.Fatalf("unknown id in pages: %s", g.ID)
		}
		seen[g.ID] = true
	}
	if len(seen) != 250 {
		t.Fatalf("concatenated pages omit rows: %d of 250", len(seen))
	}

	// Newest-first with id tie-break must hold across page boundaries.
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("ordering violated at %d", i)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
			t.Fatalf("tie-break violated at %d", i)
		}
	}
}

func TestPopularOrdering(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()

	low := mustInsert(t, repo, newGame(devA, "low rated", "10", domain.StatusPublished))
	high := mustInsert(t, repo, newGame(devA, "high rated", "10", domain.StatusPublished))

	if err := repo.RecordRating(ctx, high.ID, price("5")); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := repo.RecordRating(ctx, low.ID, price("2")); err != nil {
		t.Fatalf("rate: %v", err)
	}

	games, _, err := repo.Scan(ctx, repository.GameFilter{Sort: repository.SortPopular, Limit: 10})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if games[0].ID != high.ID {
		t.Fatal("popular sort must put the higher-rated game first")
	}
}

func TestIncrementalMean(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()
	created := mustInsert(t, repo, newGame(devA, "rated game", "10", domain.StatusPublished))

	ratings := []string{"5", "3", "4", "1.5", "2", "0", "4.5", "3.3"}
	sum := decimal.Zero
	for _, r := range ratings {
		value := price(r)
		if err := repo.RecordRating(ctx, created.ID, value); err != nil {
			t.Fatalf("rate %s: %v", r, err)
		}
		sum = sum.Add(value)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RatingCount != int32(len(ratings)) {
		t.Fatalf("rating_count = %d, want %d", got.RatingCount, len(ratings))
	}

	want := sum.Div(decimal.NewFromInt(int64(len(ratings))))
	diff := got.AverageRating.Sub(want).Abs()
	if diff.Cmp(price("0.0000001")) > 0 {
		t.Fatalf("incremental mean drifted: got %s, want %s", got.AverageRating, want)
	}
}

func TestConcurrentPurchases(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()
	created := mustInsert(t, repo, newGame(devA, "popular game", "10", domain.StatusPublished))

	const k = 100
	var wg sync.WaitGroup
	errCh := make(chan error, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- repo.RecordPurchase(ctx, created.ID)
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("purchase: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PurchaseCount != k {
		t.Fatalf("lost updates: purchase_count = %d, want %d", got.PurchaseCount, k)
	}
}

func TestConcurrentRatings(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()
	created := mustInsert(t, repo, newGame(devA, "rated game", "10", domain.StatusPublished))

	const k = 50
	value := price("4")
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.RecordRating(ctx, created.ID, value)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RatingCount != k {
		t.Fatalf("rating_count = %d, want %d", got.RatingCount, k)
	}
	// Identical concurrent ratings must leave the average at that value.
	if got.AverageRating.Sub(value).Abs().Cmp(price("0.0000001")) > 0 {
		t.Fatalf("average drifted under concurrency: %s", got.AverageRating)
	}
}

func TestScreenshots(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()
	created := mustInsert(t, repo, newGame(devA, "shot game", "10", domain.StatusPublished))

	urls := []string{"https://cdn/a.png", "https://cdn/b.png", "https://cdn/a.png"}
	for _, u := range urls {
		if err := repo.AppendScreenshot(ctx, created.ID, u); err != nil {
			t.Fatalf("append %s: %v", u, err)
		}
	}

	got, _ := repo.GetByID(ctx, created.ID)
	if len(got.Screenshots) != 3 {
		t.Fatalf("duplicates must be kept, got %v", got.Screenshots)
	}
	if got.Screenshots[0] != urls[0] || got.Screenshots[1] != urls[1] || got.Screenshots[2] != urls[2] {
		t.Fatalf("order must be preserved, got %v", got.Screenshots)
	}

	// Removing an absent url is a success and leaves content unchanged.
	if err := repo.RemoveScreenshot(ctx, created.ID, "https://cdn/missing.png"); err != nil {
		t.Fatalf("no-op remove: %v", err)
	}
	got, _ = repo.GetByID(ctx, created.ID)
	if len(got.Screenshots) != 3 {
		t.Fatalf("no-op remove changed content: %v", got.Screenshots)
	}

	// Removing strips every occurrence.
	if err := repo.RemoveScreenshot(ctx, created.ID, "https://cdn/a.png"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ = repo.GetByID(ctx, created.ID)
	if len(got.Screenshots) != 1 || got.Screenshots[0] != "https://cdn/b.png" {
		t.Fatalf("remove must drop all occurrences, got %v", got.Screenshots)
	}
}

func TestAggregateOpsTouchUpdatedAt(t *testing.T) {
	repo := NewGameRepository()
	ctx := context.Background()
	created := mustInsert(t, repo, newGame(devA, "touched game", "10", domain.StatusPublished))

	if err := repo.RecordPurchase(ctx, created.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	got, _ := repo.GetByID(ctx, created.ID)
	if got.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("updated_at must not go backwards on aggregate updates")
	}
}

func TestScanWindowBeyondTotal(t *testing.T) {
	repo := NewGameRepository()
	mustInsert(t, repo, newGame(devA, "only game", "10", domain.StatusPublished))

	games, total, err := repo.Scan(context.Background(), repository.GameFilter{Limit: 10, Offset: 100})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if total != 1 || len(games) != 0 {
		t.Fatalf("want empty page with true total, got total=%d len=%d", total, len(games))
	}
}
