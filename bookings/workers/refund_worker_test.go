package workers

import (
	"context"
	"errors"
	"testing"

	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type settlerFunc func(ctx context.Context, id uuid.UUID) error

func (f settlerFunc) SettleRefund(ctx context.Context, id uuid.UUID) error { return f(ctx, id) }

func TestRefundWorkerProcessTask(t *testing.T) {
	t.Parallel()

	paymentID := uuid.New()
	task, err := services.NewRefundSettleTask(paymentID, uuid.New())
	if err != nil {
		t.Fatalf("NewRefundSettleTask: %v", err)
	}

	tests := []struct {
		name      string
		task      *asynq.Task
		settleErr error
		wantErr   bool
		wantSkip  bool
	}{
		{name: "settled", task: task},
		{name: "missing payment", task: task, settleErr: apperr.NotFound("payment not found"), wantErr: true, wantSkip: true},
		{name: "not a refund", task: task, settleErr: apperr.NotAllowed("payment is not a refund"), wantErr: true, wantSkip: true},
		{name: "storage down", task: task, settleErr: apperr.Storage(errors.New("connection refused")), wantErr: true},
		{name: "bad payload", task: asynq.NewTask(services.TypeRefundSettle, []byte("{")), wantErr: true, wantSkip: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got uuid.UUID
			worker := NewRefundWorker(settlerFunc(func(_ context.Context, id uuid.UUID) error {
				got = id
				return tt.settleErr
			}), zap.NewNop())

			err := worker.ProcessTask(context.Background(), tt.task)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, asynq.SkipRetry) != tt.wantSkip {
				t.Errorf("SkipRetry = %v, want %v", errors.Is(err, asynq.SkipRetry), tt.wantSkip)
			}
			if tt.settleErr == nil && !tt.wantErr && got != paymentID {
				t.Errorf("settled %s, want %s", got, paymentID)
			}
		})
	}
}
