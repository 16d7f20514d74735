package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RefundSettler is satisfied by ReservationService.
type RefundSettler interface {
	SettleRefund(ctx context.Context, paymentID uuid.UUID) error
}

type RefundWorker struct {
	settler RefundSettler
	logger  *zap.Logger
}

func NewRefundWorker(settler RefundSettler, logger *zap.Logger) *RefundWorker {
	return &RefundWorker{settler: settler, logger: logger}
}

// ProcessTask settles one refund. Records that no longer exist or are not refunds are skipped
// rather than retried.
func (w *RefundWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload services.RefundSettlePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", services.TypeRefundSettle, err, asynq.SkipRetry)
	}

	err := w.settler.SettleRefund(ctx, payload.PaymentID)
	switch {
	case err == nil:
		return nil
	case apperr.Is(err, apperr.KindNotFound), apperr.Is(err, apperr.KindOperationNotAllowed):
		w.logger.Warn("dropping refund task",
			zap.String("payment_id", payload.PaymentID.String()),
			zap.Error(err))
		return fmt.Errorf("settle refund %s: %v: %w", payload.PaymentID, err, asynq.SkipRetry)
	default:
		w.logger.Error("refund settlement failed, will retry",
			zap.String("payment_id", payload.PaymentID.String()),
			zap.Error(err))
		return err
	}
}

// NewServeMux routes every task type this service consumes.
func NewServeMux(worker *RefundWorker) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(services.TypeRefundSettle, worker)
	return mux
}
