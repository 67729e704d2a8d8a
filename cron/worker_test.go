package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tableorder/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderRepo struct {
	upserted []models.Order
	err      error
}

func (f *fakeOrderRepo) Upsert(ctx context.Context, order models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, order)
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	return nil, errors.New("not implemented")
}

func testOrder() models.Order {
	return models.Order{
		OrderID:   "o1",
		SessionID: "s1",
		TableID:   "T3",
		Items:     models.Cart{{ItemID: "t1", Name: "Masala Tea", Price: 40, Quantity: 2}},
		Total:     80,
		Status:    models.StatusPlaced,
	}
}

func TestNewArchiveTask(t *testing.T) {
	task, err := NewArchiveTask(testOrder())
	require.NoError(t, err)
	assert.Equal(t, TypeOrderArchive, task.Type())

	var p models.OrderArchivePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, testOrder(), p.Order)
}

func TestHandleOrderArchiveTask(t *testing.T) {
	repo := &fakeOrderRepo{}
	handler := handleOrderArchiveTask(repo, zap.NewNop())

	task, err := NewArchiveTask(testOrder())
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "o1", repo.upserted[0].OrderID)
}

func TestHandleOrderArchiveTask_Errors(t *testing.T) {
	repo := &fakeOrderRepo{}
	handler := handleOrderArchiveTask(repo, zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(TypeOrderArchive, []byte("{broken")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = handler(context.Background(), asynq.NewTask(TypeOrderArchive, []byte(`{"order":{}}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	repo.err = errors.New("mongo down")
	task, err := NewArchiveTask(testOrder())
	require.NoError(t, err)
	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
