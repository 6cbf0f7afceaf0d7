package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/industry-planner/internal/application/common"
)

// PrometheusMiddleware records the duration and outcome of every mediator request.
// Requests are labelled by bare type name, e.g. "SchedulePlanCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(common.RequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}
