package msgqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/pkg/composables"
)

// Handler processes one claimed message. A nil return acknowledges the
// message; an error releases it for redelivery.
type Handler func(ctx context.Context, payload json.RawMessage) error

type ConsumerOptions struct {
	Queue        string
	PollInterval time.Duration
	RetryBase    time.Duration
	MaxBackoff   time.Duration
	MaxAttempts  int
}

func (o *ConsumerOptions) fill() {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.RetryBase <= 0 {
		o.RetryBase = time.Second
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = 5 * time.Minute
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 10
	}
}

// Consumer drains a single queue on a poll loop. It claims one message per
// iteration, which keeps result processing strictly sequential.
type Consumer struct {
	pool    *pgxpool.Pool
	log     *logrus.Logger
	handler Handler
	opts    ConsumerOptions
}

func NewConsumer(pool *pgxpool.Pool, log *logrus.Logger, handler Handler, opts ConsumerOptions) *Consumer {
	opts.fill()
	return &Consumer{pool: pool, log: log, handler: handler, opts: opts}
}

func (c *Consumer) Name() string {
	return "msgqueue-consumer:" + c.opts.Queue
}

func (c *Consumer) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		// Drain everything that is ready before sleeping again.
		for {
			processed, err := c.ProcessOne(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.log.WithError(err).WithField("queue", c.opts.Queue).Error("queue iteration failed")
				break
			}
			if !processed {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

type claimed struct {
	id       int64
	payload  json.RawMessage
	attempts int
}

// ProcessOne claims at most one due message and runs the handler on it.
// It reports whether a message was claimed.
func (c *Consumer) ProcessOne(ctx context.Context) (bool, error) {
	ctx = composables.WithPool(ctx, c.pool)
	msg, err := c.claim(ctx)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, nil
	}

	start := time.Now()
	handleErr := c.handler(ctx, msg.payload)
	getMetrics().handleDuration.WithLabelValues(c.opts.Queue).Observe(time.Since(start).Seconds())

	if handleErr == nil {
		if err := c.ack(ctx, msg.id); err != nil {
			return true, err
		}
		getMetrics().handledTotal.WithLabelValues(c.opts.Queue, "ok").Inc()
		return true, nil
	}

	c.log.WithError(handleErr).WithFields(logrus.Fields{
		"queue":    c.opts.Queue,
		"message":  msg.id,
		"attempts": msg.attempts + 1,
	}).Warn("message handling failed")

	if err := c.nack(ctx, msg, handleErr); err != nil {
		return true, err
	}
	getMetrics().handledTotal.WithLabelValues(c.opts.Queue, "retry").Inc()
	return true, nil
}

// claim locks the oldest due message and marks it in-flight. The claim
// commits before the handler runs, so a crash mid-handling surfaces as a
// retry once the lock row becomes due again.
func (c *Consumer) claim(ctx context.Context) (*claimed, error) {
	table := pgx.Identifier{c.opts.Queue}.Sanitize()

	var msg *claimed
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}

		q := fmt.Sprintf(`
			SELECT id, payload, attempts
			FROM %s
			WHERE available_at <= now() AND dead_at IS NULL
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED`, table)

		var m claimed
		if err := tx.QueryRow(txCtx, q).Scan(&m.id, &m.payload, &m.attempts); err != nil {
			if err == pgx.ErrNoRows {
				return nil
			}
			return fmt.Errorf("msgqueue claim: %w", err)
		}

		// Push availability out while we hold the message so a parallel
		// process never double-claims after the tx commits.
		hold := fmt.Sprintf(`UPDATE %s SET available_at = now() + make_interval(secs => $1) WHERE id = $2`, table)
		if _, err := tx.Exec(txCtx, hold, c.opts.MaxBackoff.Seconds(), m.id); err != nil {
			return fmt.Errorf("msgqueue hold: %w", err)
		}

		msg = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (c *Consumer) ack(ctx context.Context, id int64) error {
	table := pgx.Identifier{c.opts.Queue}.Sanitize()
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	if _, err := c.pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("msgqueue ack: %w", err)
	}
	return nil
}

func (c *Consumer) nack(ctx context.Context, msg *claimed, cause error) error {
	table := pgx.Identifier{c.opts.Queue}.Sanitize()
	attempts := msg.attempts + 1

	if attempts >= c.opts.MaxAttempts {
		q := fmt.Sprintf(`UPDATE %s SET attempts = $1, last_error = $2, dead_at = now() WHERE id = $3`, table)
		if _, err := c.pool.Exec(ctx, q, attempts, cause.Error(), msg.id); err != nil {
			return fmt.Errorf("msgqueue dead-letter: %w", err)
		}
		getMetrics().deadTotal.WithLabelValues(c.opts.Queue).Inc()
		c.log.WithFields(logrus.Fields{
			"queue":   c.opts.Queue,
			"message": msg.id,
		}).Error("message exhausted retries")
		return nil
	}

	delay := retryDelay(attempts, c.opts.RetryBase, c.opts.MaxBackoff)
	q := fmt.Sprintf(
		`UPDATE %s SET attempts = $1, last_error = $2, available_at = now() + make_interval(secs => $3) WHERE id = $4`,
		table,
	)
	if _, err := c.pool.Exec(ctx, q, attempts, cause.Error(), delay.Seconds(), msg.id); err != nil {
		return fmt.Errorf("msgqueue nack: %w", err)
	}
	return nil
}
