package admin

import (
	"context"
	"time"

	"github.com/go-kit/log"

	"github.com/go-kit/toggle"
)

// Middleware describes a service (as opposed to endpoint) middleware.
type Middleware func(Service) Service

// LoggingMiddleware logs every call with its parameters, duration and error.
func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   Service
	logger log.Logger
}

func (mw loggingMiddleware) Groups(ctx context.Context) (groups []GroupState, err error) {
	defer func(begin time.Time) {
		mw.logger.Log("method", "Groups", "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.Groups(ctx)
}

func (mw loggingMiddleware) Group(ctx context.Context, name string) (g GroupState, err error) {
	defer func(begin time.Time) {
		mw.logger.Log("method", "Group", "group", name, "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.Group(ctx, name)
}

func (mw loggingMiddleware) SetFlag(ctx context.Context, group, flag string, enabled bool) (st toggle.FlagState, err error) {
	defer func(begin time.Time) {
		mw.logger.Log("method", "SetFlag", "group", group, "flag", flag, "enabled", enabled, "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.SetFlag(ctx, group, flag, enabled)
}

func (mw loggingMiddleware) ToggleFlag(ctx context.Context, group, flag string) (st toggle.FlagState, err error) {
	defer func(begin time.Time) {
		mw.logger.Log("method", "ToggleFlag", "group", group, "flag", flag, "enabled", st.Enabled, "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.ToggleFlag(ctx, group, flag)
}
