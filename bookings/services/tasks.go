package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeRefundSettle = "refund:settle"

type RefundSettlePayload struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
}

func NewRefundSettleTask(paymentID, reservationID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(RefundSettlePayload{PaymentID: paymentID, ReservationID: reservationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefundSettle, payload, asynq.MaxRetry(10), asynq.Timeout(time.Minute)), nil
}

// RefundEnqueuer hands a pending refund to background settlement.
type RefundEnqueuer interface {
	EnqueueRefundSettlement(ctx context.Context, paymentID, reservationID uuid.UUID) error
}

type AsynqRefundEnqueuer struct {
	client *asynq.Client
}

func NewAsynqRefundEnqueuer(client *asynq.Client) *AsynqRefundEnqueuer {
	return &AsynqRefundEnqueuer{client: client}
}

func (e *AsynqRefundEnqueuer) EnqueueRefundSettlement(ctx context.Context, paymentID, reservationID uuid.UUID) error {
	task, err := NewRefundSettleTask(paymentID, reservationID)
	if err != nil {
		return fmt.Errorf("build refund task: %w", err)
	}
	// one task per refund record; a duplicate enqueue is rejected by asynq
	_, err = e.client.EnqueueContext(ctx, task, asynq.TaskID("refund-"+paymentID.String()))
	if err != nil {
		return fmt.Errorf("enqueue refund task: %w", err)
	}
	return nil
}
