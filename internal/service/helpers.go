package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

// Clock supplies the current time to services.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// lookupError maps a repository read failure to a not-found or internal error.
func lookupError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Internal(err, "failed to load "+what)
}

type requestMetaKey struct{}

// RequestMeta carries caller details recorded on audit log rows.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches caller details to ctx.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom reads caller details from ctx, returning zero values when absent.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
