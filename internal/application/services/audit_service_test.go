package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/rfp-response-pipeline/internal/application/services"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *entities.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByProcess(ctx context.Context, processID string) ([]*entities.AuditEntry, error) {
	args := m.Called(ctx, processID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AuditEntry), args.Error(1)
}

func TestAuditService_Record(t *testing.T) {
	t.Run("writes an entry with a 30 day expiry", func(t *testing.T) {
		repo := new(MockAuditRepository)
		service := services.NewAuditService(repo)

		var written *entities.AuditEntry
		repo.On("Append", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				written = args.Get(1).(*entities.AuditEntry)
			}).
			Return(nil)

		service.Record(context.Background(), "proc-1", "decision_completed", "bid decision recorded", map[string]interface{}{
			"decision": "BID",
		})

		assert.NotNil(t, written)
		assert.NotEmpty(t, written.LogID)
		assert.Equal(t, "proc-1", written.ProcessID)
		assert.Equal(t, "decision_completed", written.ActionType)
		assert.WithinDuration(t, written.Timestamp.Add(30*24*time.Hour), written.ExpiresAt, time.Second)
	})

	t.Run("swallows repository failures", func(t *testing.T) {
		repo := new(MockAuditRepository)
		service := services.NewAuditService(repo)

		repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("table locked"))

		assert.NotPanics(t, func() {
			service.Record(context.Background(), "proc-1", "processing_started", "pipeline run started", nil)
		})
	})
}

func TestAuditService_History(t *testing.T) {
	repo := new(MockAuditRepository)
	service := services.NewAuditService(repo)

	entries := []*entities.AuditEntry{{LogID: "log-1", ProcessID: "proc-1"}}
	repo.On("ListByProcess", mock.Anything, "proc-1").Return(entries, nil)

	result, err := service.History(context.Background(), "proc-1")

	assert.NoError(t, err)
	assert.Equal(t, entries, result)
}
