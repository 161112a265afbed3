package composables

import (
	"context"
	"errors"

	"github.com/campusware/campus/pkg/constants"
)

var ErrNoCampusID = errors.New("no campus id found in context")

// WithCampusID attaches the campus (scope) qualifier to the context. Repositories
// use it to namespace natural keys so two campuses can import overlapping codes.
func WithCampusID(ctx context.Context, campusID string) context.Context {
	return context.WithValue(ctx, constants.CampusIDKey, campusID)
}

func UseCampusID(ctx context.Context) (string, error) {
	campusID, ok := ctx.Value(constants.CampusIDKey).(string)
	if !ok {
		return "", ErrNoCampusID
	}
	return campusID, nil
}

// CampusIDOrEmpty returns the campus qualifier or "" when the request is not
// scoped to a campus.
func CampusIDOrEmpty(ctx context.Context) string {
	campusID, _ := ctx.Value(constants.CampusIDKey).(string)
	return campusID
}
