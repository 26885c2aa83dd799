package validator

import (
	"io"
	"testing"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

func testValidator() *ExceptionValidator {
	return NewExceptionValidator(logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.TEXT,
		Output: io.Discard,
	}))
}

func TestValidateUpserts(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		entries []model.ExceptionUpsert
		wantErr bool
	}{
		{
			name: "all-day block",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", AllDay: true},
			},
		},
		{
			name: "custom window",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", StartTime: "10:00", EndTime: "14:00"},
			},
		},
		{
			name: "reset entry",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024"},
			},
		},
		{
			name: "several dates",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", AllDay: true},
				{Date: "04-JUN-2024", StartTime: "10:00", EndTime: "14:00"},
				{Date: "05-JUN-2024"},
			},
		},
		{
			name:    "empty batch",
			entries: nil,
		},
		{
			name: "missing date",
			entries: []model.ExceptionUpsert{
				{AllDay: true},
			},
			wantErr: true,
		},
		{
			name: "malformed date",
			entries: []model.ExceptionUpsert{
				{Date: "2024-06-03", AllDay: true},
			},
			wantErr: true,
		},
		{
			name: "duplicate dates in different spellings",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", AllDay: true},
				{Date: "03-jun-2024"},
			},
			wantErr: true,
		},
		{
			name: "all-day with window",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", AllDay: true, StartTime: "10:00", EndTime: "14:00"},
			},
			wantErr: true,
		},
		{
			name: "start without end",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", StartTime: "10:00"},
			},
			wantErr: true,
		},
		{
			name: "inverted window",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", StartTime: "14:00", EndTime: "10:00"},
			},
			wantErr: true,
		},
		{
			name: "malformed time",
			entries: []model.ExceptionUpsert{
				{Date: "03-JUN-2024", StartTime: "10am", EndTime: "14:00"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpserts(tt.entries)
			if tt.wantErr && err == nil {
				t.Error("ValidateUpserts returned nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateUpserts returned error: %v", err)
			}
		})
	}
}
