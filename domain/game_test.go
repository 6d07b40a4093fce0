package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

const devID = "7a9632ff-95b5-4df2-92b8-a9a0e0a7a2b1"

func validGame() *Game {
	return &Game{
		DeveloperID: devID,
		Name:        "Starfall",
		Categories:  []Category{CategoryAction},
		Price:       decimal.NewFromInt(20),
	}
}

func TestValidateForCreate(t *testing.T) {
	if err := validGame().ValidateForCreate(); err != nil {
		t.Fatalf("valid game rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Game)
	}{
		{"bad developer id", func(g *Game) { g.DeveloperID = "not-a-uuid" }},
		{"bad publisher id", func(g *Game) { g.PublisherID = "nope" }},
		{"empty name", func(g *Game) { g.Name = "" }},
		{"no categories", func(g *Game) { g.Categories = nil }},
		{"sentinel category", func(g *Game) { g.Categories = []Category{CategoryUnspecified} }},
		{"unknown category", func(g *Game) { g.Categories = []Category{"roguelike"} }},
		{"negative price", func(g *Game) { g.Price = decimal.NewFromInt(-1) }},
		{"sub-cent price", func(g *Game) { g.Price = decimal.RequireFromString("19.999") }},
	}
	for _, tc := range cases {
		game := validGame()
		tc.mutate(game)
		err := game.ValidateForCreate()
		if err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
		if !IsDomainError(err, ErrCodeInvalid) {
			t.Fatalf("%s: expected INVALID, got %v", tc.name, err)
		}
	}
}

func TestPatchValidate(t *testing.T) {
	empty := ""
	negative := decimal.NewFromInt(-5)
	subCent := decimal.RequireFromString("19.999")
	badStatus := Status("archived")
	noCategories := []Category{}

	cases := []struct {
		name  string
		patch GamePatch
	}{
		{"empty name", GamePatch{Name: &empty}},
		{"negative price", GamePatch{Price: &negative}},
		{"sub-cent price", GamePatch{Price: &subCent}},
		{"unknown status", GamePatch{Status: &badStatus}},
		{"emptied categories", GamePatch{Categories: &noCategories}},
	}
	for _, tc := range cases {
		if err := tc.patch.Validate(); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}

	name := "Renamed"
	status := StatusPublished
	ok := GamePatch{Name: &name, Status: &status}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid patch rejected: %v", err)
	}

	// Clearing a nullable field with the empty string is allowed.
	clear := GamePatch{TrailerURL: &empty, PublisherID: &empty}
	if err := clear.Validate(); err != nil {
		t.Fatalf("clearing patch rejected: %v", err)
	}
}

func TestPatchIsZero(t *testing.T) {
	if !(GamePatch{}).IsZero() {
		t.Fatal("empty patch should be zero")
	}
	name := "x"
	if (GamePatch{Name: &name}).IsZero() {
		t.Fatal("patch with a field should not be zero")
	}
}

func TestValidRating(t *testing.T) {
	for _, v := range []string{"0", "2.5", "5"} {
		value, _ := decimal.NewFromString(v)
		if !ValidRating(value) {
			t.Fatalf("%s should be a valid rating", v)
		}
	}
	for _, v := range []string{"-0.1", "5.01", "100"} {
		value, _ := decimal.NewFromString(v)
		if ValidRating(value) {
			t.Fatalf("%s should be rejected", v)
		}
	}
}
