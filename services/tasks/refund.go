package tasks

import (
	"encoding/json"

	"roamly/models"

	"github.com/hibiken/asynq"
)

const TypeRefundCreate = "refund:create"

// NewRefundRequestTask wraps a refund request for the side-effect queue.
// Refunds get their own queue and a generous retry budget; the owning worker
// is responsible for eventually landing them.
func NewRefundRequestTask(req models.RefundRequest) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRefundCreate, b)
	opts := []asynq.Option{asynq.Queue("refunds"), asynq.MaxRetry(10)}

	return task, opts, nil
}
