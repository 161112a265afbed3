// Package msgqueue is a PostgreSQL-backed message channel between this
// service and the external validation worker. Requests are enqueued in the
// submitter's transaction; results are consumed one at a time with
// at-least-once redelivery.
package msgqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusware/campus/pkg/composables"
)

const (
	// RequestsQueue carries outbound validation requests to the worker.
	RequestsQueue = "import_requests"
	// ResultsQueue carries inbound validation results from the worker.
	ResultsQueue = "import_results"
)

type Publisher interface {
	Enqueue(ctx context.Context, queue string, payload interface{}) error
}

type publisher struct{}

func NewPublisher() Publisher {
	return &publisher{}
}

// Enqueue writes the message on the caller's transaction, so a rolled-back
// submission leaves no request behind.
func (p *publisher) Enqueue(ctx context.Context, queue string, payload interface{}) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("msgqueue marshal: %w", err)
	}

	table := pgx.Identifier{queue}.Sanitize()
	q := fmt.Sprintf(
		`INSERT INTO %s (payload, available_at, created_at) VALUES ($1, now(), now())`,
		table,
	)
	if _, err := tx.Exec(ctx, q, body); err != nil {
		return fmt.Errorf("msgqueue enqueue: %w", err)
	}

	getMetrics().enqueueTotal.WithLabelValues(queue).Inc()
	return nil
}
