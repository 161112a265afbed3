package seeding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/domain/messages"
	"github.com/campusware/campus/pkg/composables"
)

// Result is the outcome of seeding one validated batch. ErroneousRows keeps
// the raw payload of every row that failed, in batch order.
type Result struct {
	Seeded        int
	Errors        []*importtask.TaskError
	ErroneousRows []json.RawMessage
}

// Engine walks a validated batch row by row. Each row runs in its own
// transaction, so one bad row never takes down its neighbours, and rows are
// applied strictly in order.
type Engine struct {
	handlers map[messages.Category]Handler
	log      *logrus.Logger
	inTx     func(context.Context, func(context.Context) error) error
}

func NewEngine(repos Repositories, log *logrus.Logger) *Engine {
	return &Engine{handlers: Handlers(repos), log: log, inTx: composables.InTx}
}

func (e *Engine) Seed(ctx context.Context, category messages.Category, rows []json.RawMessage, campusID string) (*Result, error) {
	handler, ok := e.handlers[category]
	if !ok {
		return nil, fmt.Errorf("no seeding handler for category %q", category)
	}

	result := &Result{}
	for i, row := range rows {
		err := e.inTx(ctx, func(txCtx context.Context) error {
			return handler.SeedOne(txCtx, row, campusID)
		})
		if err == nil {
			result.Seeded++
			getMetrics().rowsTotal.WithLabelValues(string(category), "ok").Inc()
			continue
		}

		kind, column, message := TranslateStorageError(err)
		result.ErroneousRows = append(result.ErroneousRows, row)
		result.Errors = append(result.Errors, &importtask.TaskError{
			Row:      i + 1,
			Column:   column,
			Kind:     kind,
			Message:  message,
			Severity: importtask.SeverityError,
		})
		getMetrics().rowsTotal.WithLabelValues(string(category), "error").Inc()
		e.log.WithError(err).WithFields(logrus.Fields{
			"category": category,
			"row":      i + 1,
			"kind":     kind,
		}).Warn("row seeding failed")
	}
	return result, nil
}
