package domain

import "testing"

func TestCategoryWireRoundTrip(t *testing.T) {
	seen := make(map[Category]int32)
	for wire := int32(0); wire <= 8; wire++ {
		category, err := CategoryFromWire(wire)
		if err != nil {
			t.Fatalf("wire %d: %v", wire, err)
		}
		if prev, dup := seen[category]; dup {
			t.Fatalf("wire %d and %d map to the same category %s", prev, wire, category)
		}
		seen[category] = wire

		if got := category.Wire(); got != wire {
			t.Fatalf("category %s: round-trip gave %d, want %d", category, got, wire)
		}
	}
	if len(seen) != 9 {
		t.Fatalf("expected 9 distinct categories, got %d", len(seen))
	}
}

func TestCategoryFromWireUnknown(t *testing.T) {
	for _, wire := range []int32{-1, 9, 100} {
		if _, err := CategoryFromWire(wire); err == nil {
			t.Fatalf("wire %d should be rejected", wire)
		}
	}
}

func TestStatusWireRoundTrip(t *testing.T) {
	seen := make(map[Status]int32)
	for wire := int32(1); wire <= 4; wire++ {
		status, err := StatusFromWire(wire)
		if err != nil {
			t.Fatalf("wire %d: %v", wire, err)
		}
		if prev, dup := seen[status]; dup {
			t.Fatalf("wire %d and %d map to the same status %s", prev, wire, status)
		}
		seen[status] = wire

		if got := status.Wire(); got != wire {
			t.Fatalf("status %s: round-trip gave %d, want %d", status, got, wire)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct statuses, got %d", len(seen))
	}
}

func TestStatusFromWireUnknown(t *testing.T) {
	for _, wire := range []int32{0, 5, -2} {
		if _, err := StatusFromWire(wire); err == nil {
			t.Fatalf("wire %d should be rejected", wire)
		}
	}
}

func TestParseCategoryRejectsSentinel(t *testing.T) {
	if _, err := ParseCategory("unspecified"); err == nil {
		t.Fatal("unspecified must not parse as a real category")
	}
	if _, err := ParseCategory("roguelike"); err == nil {
		t.Fatal("unknown name must not parse")
	}
	category, err := ParseCategory("rpg")
	if err != nil {
		t.Fatalf("rpg: %v", err)
	}
	if category != CategoryRPG {
		t.Fatalf("got %s", category)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("under_review")
	if err != nil {
		t.Fatalf("under_review: %v", err)
	}
	if status != StatusUnderReview {
		t.Fatalf("got %s", status)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatal("unknown status must not parse")
	}
}

func TestVocabularyOrder(t *testing.T) {
	categories := Categories()
	if len(categories) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(categories))
	}
	if categories[0] != CategoryAction || categories[7] != CategoryPuzzle {
		t.Fatalf("unexpected order: %v", categories)
	}

	statuses := Statuses()
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses[0] != StatusDraft || statuses[3] != StatusSuspended {
		t.Fatalf("unexpected order: %v", statuses)
	}
}
