package service

import (
	"context"
	"io"
	"testing"

	"slotwise/internal/exceptions/validator"
	"slotwise/pkg/config"
	mongotx "slotwise/pkg/db/mongo"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

type mockExceptionRepo struct {
	stored map[string]*model.DateException

	upserted []string
	deleted  []string
}

func newMockExceptionRepo() *mockExceptionRepo {
	return &mockExceptionRepo{stored: map[string]*model.DateException{}}
}

func (m *mockExceptionRepo) FindByAgent(ctx context.Context, agentID string) ([]*model.DateException, error) {
	var out []*model.DateException
	for _, e := range m.stored {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockExceptionRepo) Upsert(ctx context.Context, exc *model.DateException) error {
	m.upserted = append(m.upserted, exc.Date)
	m.stored[exc.Date] = exc
	return nil
}

func (m *mockExceptionRepo) DeleteByDate(ctx context.Context, agentID string, date string) error {
	m.deleted = append(m.deleted, date)
	delete(m.stored, date)
	return nil
}

func (m *mockExceptionRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockExceptionRepo) ExceptionService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT, Output: io.Discard})
	return NewExceptionService(repo, validator.NewExceptionValidator(log), &config.Config{Log: log})
}

func TestReplaceUpsertsAndResets(t *testing.T) {
	repo := newMockExceptionRepo()
	repo.stored["05-JUN-2024"] = &model.DateException{
		AgentID: "agent-1",
		Date:    "05-JUN-2024",
		AllDay:  true,
	}
	svc := newTestService(repo)

	entries := []model.ExceptionUpsert{
		{Date: "03-JUN-2024", AllDay: true},
		{Date: "04-jun-2024", StartTime: "10:00", EndTime: "14:00"},
		{Date: "05-JUN-2024"}, // reset back to the weekly rule
	}

	snapshot, err := svc.Replace(context.Background(), "agent-1", entries)
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}

	if len(repo.upserted) != 2 {
		t.Errorf("upserted %v, want two entries", repo.upserted)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "05-JUN-2024" {
		t.Errorf("deleted %v, want [05-JUN-2024]", repo.deleted)
	}

	// Dates are canonicalized through the parse/format boundary.
	if _, ok := repo.stored["04-JUN-2024"]; !ok {
		t.Errorf("lowercase input was not canonicalized, stored keys: %v", repo.upserted)
	}

	if len(snapshot) != 2 {
		t.Errorf("snapshot has %d entries, want 2", len(snapshot))
	}
}

func TestReplaceRejectsInvalidBatch(t *testing.T) {
	repo := newMockExceptionRepo()
	svc := newTestService(repo)

	_, err := svc.Replace(context.Background(), "agent-1", []model.ExceptionUpsert{
		{Date: "03-JUN-2024", AllDay: true, StartTime: "10:00", EndTime: "14:00"},
	})
	if err == nil {
		t.Fatal("Replace accepted an all-day entry with a window")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Errorf("error = %v, want code %s", err, apperrors.CodeValidation)
	}
	if len(repo.upserted) != 0 {
		t.Errorf("nothing should be written on validation failure, upserted %v", repo.upserted)
	}
}

func TestReplaceEmptyBatch(t *testing.T) {
	svc := newTestService(newMockExceptionRepo())

	_, err := svc.Replace(context.Background(), "agent-1", nil)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("error = %v, want code %s", err, apperrors.CodeInvalidInput)
	}
}
