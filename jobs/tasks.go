// Package jobs runs FurniQ's background work on Asynq: the nightly stock
// reconciliation sweep plus the HTTP surface for enqueueing and observing
// it.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockReconcile compares each product's stock with the sum of its
	// inventory log deltas and reports drift.
	TaskStockReconcile = "inventory:reconcile"
)

// StockReconcilePayload narrows a reconcile run. A zero ProductID means
// the whole catalog.
type StockReconcilePayload struct {
	ProductID int64 `json:"productId,omitempty"`
}

// NewStockReconcileTask constructs the reconcile task.
func NewStockReconcileTask(payload StockReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockReconcile, data), nil
}
