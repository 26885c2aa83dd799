package service

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/internal/exceptions/repository"
	"slotwise/internal/exceptions/validator"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"slotwise/pkg/timefmt"
)

type ExceptionService interface {
	List(ctx context.Context, agentID string) ([]*model.DateException, error)
	Replace(ctx context.Context, agentID string, entries []model.ExceptionUpsert) ([]*model.DateException, error)
}

type exceptionService struct {
	repo      repository.ExceptionRepository
	validator *validator.ExceptionValidator
	cfg       *config.Config
}

func NewExceptionService(
	repo repository.ExceptionRepository,
	validator *validator.ExceptionValidator,
	cfg *config.Config,
) ExceptionService {
	return &exceptionService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *exceptionService) List(ctx context.Context, agentID string) ([]*model.DateException, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}

	exceptions, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		s.cfg.Log.Error("Failed to list date exceptions", "agent_id", agentID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve date exceptions", err)
	}
	return exceptions, nil
}

// Replace applies the schedule-editing batch: each entry either upserts the
// override for its date or, when it carries neither all-day nor a window,
// deletes it. Dates not named in the batch are untouched. The returned slice
// is the full fresh snapshot for the agent.
func (s *exceptionService) Replace(ctx context.Context, agentID string, entries []model.ExceptionUpsert) ([]*model.DateException, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}
	if len(entries) == 0 {
		return nil, apperrors.InvalidInput("At least one exception entry is required")
	}

	if err := s.validator.ValidateUpserts(entries); err != nil {
		s.cfg.Log.Warn("Exception validation failed", "agent_id", agentID, "error", err)
		return nil, apperrors.Validation("Exception validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, entry := range entries {
			// normalize through the parse/format boundary so stored keys are canonical
			d, err := timefmt.ParseDate(entry.Date)
			if err != nil {
				return apperrors.Validation("Exception validation failed", map[string]any{
					"error": err.Error(),
				})
			}
			date := d.String()

			if entry.IsReset() {
				if err := s.repo.DeleteByDate(sessCtx, agentID, date); err != nil {
					return apperrors.Internal("Failed to remove date exception", err)
				}
				continue
			}

			exc := &model.DateException{
				AgentID:   agentID,
				Date:      date,
				AllDay:    entry.AllDay,
				StartTime: entry.StartTime,
				EndTime:   entry.EndTime,
			}
			if err := s.repo.Upsert(sessCtx, exc); err != nil {
				return apperrors.Internal("Failed to save date exception", err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to replace date exceptions", "agent_id", agentID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Date exceptions replaced successfully",
		"agent_id", agentID,
		"entries", len(entries),
	)
	return s.List(ctx, agentID)
}
