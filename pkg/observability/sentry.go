package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// InitSentry configures the global Sentry hub. An empty DSN disables reporting and
// returns a no-op flush.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// GinMiddleware reports panics to Sentry before gin's recovery handles them.
func GinMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second})
}

// CaptureErr forwards unexpected errors.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// ReportServerErrors forwards errors attached to requests that ended in a 5xx.
func ReportServerErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() < 500 {
			return
		}
		for _, ginErr := range c.Errors {
			CaptureErr(ginErr.Err)
		}
	}
}
