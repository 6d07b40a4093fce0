package domain

// Category classifies a game. The vocabulary is closed: values outside the
// tables below are rejected at the engine boundary, never stored.
type Category string

const (
	CategoryUnspecified Category = "unspecified"
	CategoryAction      Category = "action"
	CategoryRPG         Category = "rpg"
	CategoryStrategy    Category = "strategy"
	CategorySports      Category = "sports"
	CategoryRacing      Category = "racing"
	CategoryAdventure   Category = "adventure"
	CategorySimulation  Category = "simulation"
	CategoryPuzzle      Category = "puzzle"
)

// Status is the lifecycle state of a game. Transitions are permissive: any
// owner-matching update may set any status, and Suspended is re-editable.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusUnderReview Status = "under_review"
	StatusPublished   Status = "published"
	StatusSuspended   Status = "suspended"
)

// Single source of truth for wire integer <-> domain value mapping. The
// reverse tables are derived from these so the two directions cannot drift.
var categoryByWire = map[int32]Category{
	0: CategoryUnspecified,
	1: CategoryAction,
	2: CategoryRPG,
	3: CategoryStrategy,
	4: CategorySports,
	5: CategoryRacing,
	6: CategoryAdventure,
	7: CategorySimulation,
	8: CategoryPuzzle,
}

var statusByWire = map[int32]Status{
	1: StatusDraft,
	2: StatusUnderReview,
	3: StatusPublished,
	4: StatusSuspended,
}

var (
	wireByCategory = invertCategories(categoryByWire)
	wireByStatus   = invertStatuses(statusByWire)
)

func invertCategories(src map[int32]Category) map[Category]int32 {
	out := make(map[Category]int32, len(src))
	for wire, value := range src {
		out[value] = wire
	}
	return out
}

func invertStatuses(src map[int32]Status) map[Status]int32 {
	out := make(map[Status]int32, len(src))
	for wire, value := range src {
		out[value] = wire
	}
	return out
}

// CategoryFromWire maps a wire integer to a Category. The zero value maps to
// CategoryUnspecified, which is a sentinel and not storable.
func CategoryFromWire(wire int32) (Category, error) {
	c, ok := categoryByWire[wire]
	if !ok {
		return CategoryUnspecified, NewError(ErrCodeInvalid, "unknown category value")
	}
	return c, nil
}

// ParseCategory maps the lowercase string form to a Category. The
// "unspecified" sentinel is not accepted as input.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := wireByCategory[c]; !ok || c == CategoryUnspecified {
		return CategoryUnspecified, NewError(ErrCodeInvalid, "unknown category "+s)
	}
	return c, nil
}

// Wire returns the wire integer for the category.
func (c Category) Wire() int32 {
	return wireByCategory[c]
}

// Valid reports whether the category is a real classification (the
// unspecified sentinel is not).
func (c Category) Valid() bool {
	_, ok := wireByCategory[c]
	return ok && c != CategoryUnspecified
}

func (c Category) String() string { return string(c) }

// StatusFromWire maps a wire integer to a Status.
func StatusFromWire(wire int32) (Status, error) {
	s, ok := statusByWire[wire]
	if !ok {
		return "", NewError(ErrCodeInvalid, "unknown status value")
	}
	return s, nil
}

// ParseStatus maps the snake_case string form to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := wireByStatus[st]; !ok {
		return "", NewError(ErrCodeInvalid, "unknown status "+s)
	}
	return st, nil
}

// Wire returns the wire integer for the status.
func (s Status) Wire() int32 {
	return wireByStatus[s]
}

// Valid reports whether the status belongs to the closed vocabulary.
func (s Status) Valid() bool {
	_, ok := wireByStatus[s]
	return ok
}

func (s Status) String() string { return string(s) }

// Categories returns every real classification in wire order. Used by
// validation messages and tests.
func Categories() []Category {
	out := make([]Category, 0, len(categoryByWire)-1)
	for wire := int32(1); wire <= int32(len(categoryByWire)-1); wire++ {
		out = append(out, categoryByWire[wire])
	}
	return out
}

// Statuses returns every lifecycle state in wire order.
func Statuses() []Status {
	out := make([]Status, 0, len(statusByWire))
	for wire := int32(1); wire <= int32(len(statusByWire)); wire++ {
		out = append(out, statusByWire[wire])
	}
	return out
}
