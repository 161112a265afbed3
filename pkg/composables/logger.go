package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/pkg/constants"
)

var ErrNoLogger = errors.New("no logger found in context")

// UseLogger returns the request-scoped log entry placed by the logging
// middleware.
func UseLogger(ctx context.Context) (*logrus.Entry, error) {
	entry, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return nil, ErrNoLogger
	}
	return entry, nil
}
