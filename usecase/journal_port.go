package usecase

import "context"

// ChangeJournal abstracts the audit journal so use cases stay
// storage-agnostic. Recording is best-effort: implementations log failures
// instead of failing the mutation that already committed.
type ChangeJournal interface {
	RecordChange(ctx context.Context, name, gameID, actorID string, payload interface{}) error
}
