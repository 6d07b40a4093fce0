package postgres

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Ex1s9/game-catalog/domain"
	"github.com/Ex1s9/game-catalog/repository"
)

func TestCompileFilterEmpty(t *testing.T) {
	compiled := compileFilter(repository.GameFilter{})

	if compiled.where != "deleted_at IS NULL" {
		t.Fatalf("unexpected where: %s", compiled.where)
	}
	if len(compiled.args) != 0 {
		t.Fatalf("expected no args, got %v", compiled.args)
	}
	if compiled.orderBy != "created_at DESC, id DESC" {
		t.Fatalf("unexpected default order: %s", compiled.orderBy)
	}
	if compiled.limit != repository.DefaultLimit || compiled.offset != 0 {
		t.Fatalf("unexpected window: limit=%d offset=%d", compiled.limit, compiled.offset)
	}
}

func TestCompileFilterAllDimensions(t *testing.T) {
	minPrice := decimal.NewFromInt(10)
	maxPrice := decimal.NewFromInt(20)
	status := domain.StatusPublished

	compiled := compileFilter(repository.GameFilter{
		DeveloperID: "dev-1",
		Categories:  []domain.Category{domain.CategoryAction, domain.CategoryRPG},
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
		Status:      &status,
		Query:       "space shooter",
		Sort:        repository.SortPopular,
		Limit:       10,
		Offset:      30,
	})

	wantClauses := []string{
		"deleted_at IS NULL",
		"developer_id = $1",
		"categories && $2::text[]",
		"price >= $3::numeric",
		"price <= $4::numeric",
		"status = $5",
		"to_tsvector('simple', name) @@ plainto_tsquery('simple', $6)",
	}
	if compiled.where != strings.Join(wantClauses, " AND ") {
		t.Fatalf("unexpected where: %s", compiled.where)
	}
	if len(compiled.args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(compiled.args))
	}
	if compiled.args[2] != "10" || compiled.args[3] != "20" {
		t.Fatalf("price bounds not rendered as decimal strings: %v", compiled.args)
	}
	if compiled.orderBy != "average_rating DESC, purchase_count DESC, id DESC" {
		t.Fatalf("unexpected popular order: %s", compiled.orderBy)
	}
}

func TestCompileFilterSingleDimension(t *testing.T) {
	status := domain.StatusDraft
	compiled := compileFilter(repository.GameFilter{Status: &status})

	if compiled.where != "deleted_at IS NULL AND status = $1" {
		t.Fatalf("unexpected where: %s", compiled.where)
	}
	if compiled.args[0] != "draft" {
		t.Fatalf("unexpected arg: %v", compiled.args[0])
	}
}

// The count and page queries must share the predicate so the reported total
// can never disagree with the page.
func TestCompileFilterSharedPredicate(t *testing.T) {
	minPrice := decimal.NewFromInt(5)
	compiled := compileFilter(repository.GameFilter{MinPrice: &minPrice, Limit: 25, Offset: 50})

	countSQL, countArgs := compiled.countQuery()
	pageSQL, pageArgs := compiled.pageQuery()

	if !strings.Contains(countSQL, compiled.where) || !strings.Contains(pageSQL, compiled.where) {
		t.Fatalf("predicate not shared:\ncount: %s\npage: %s", countSQL, pageSQL)
	}
	if len(pageArgs) != len(countArgs)+2 {
		t.Fatalf("page args should extend count args by limit+offset, got %d vs %d", len(pageArgs), len(countArgs))
	}
	for i, arg := range countArgs {
		if pageArgs[i] != arg {
			t.Fatalf("arg %d diverges between count and page", i)
		}
	}
	if pageArgs[len(pageArgs)-2] != 25 || pageArgs[len(pageArgs)-1] != 50 {
		t.Fatalf("window args wrong: %v", pageArgs)
	}
	if !strings.Contains(pageSQL, "LIMIT $2 OFFSET $3") {
		t.Fatalf("window placeholders wrong: %s", pageSQL)
	}
}

func TestCompileFilterClampsWindow(t *testing.T) {
	compiled := compileFilter(repository.GameFilter{Limit: 1000, Offset: -5})
	if compiled.limit != repository.MaxLimit {
		t.Fatalf("limit not clamped: %d", compiled.limit)
	}
	if compiled.offset != 0 {
		t.Fatalf("offset not clamped: %d", compiled.offset)
	}
}
