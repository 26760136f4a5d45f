package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
)

// PrometheusMiddleware records the duration and outcome of every mediator
// request. A nil collector disables it.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordRequest(requestName(request), time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// requestName strips the pointer and package prefix:
// "*commands.RunProjectCommand" becomes "RunProjectCommand"
func requestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
