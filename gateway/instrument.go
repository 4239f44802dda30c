package gateway

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Instrumentation registers and feeds the request/response collectors.
func Instrumentation() fiber.Handler {
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landbank",
		Subsystem: "request",
		Name:      "requests_count",
		Help:      "Number of requests per each endpoint",
	}, []string{"code", "method", "path"})

	resTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "landbank",
		Subsystem: "response",
		Name:      "response_time_hist",
		Help:      "Response duration in milliseconds",
	})

	resSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "landbank",
		Subsystem: "response",
		Name:      "size_histogram",
		Help:      "Response size",
	})

	reqSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "landbank",
		Subsystem: "request",
		Name:      "size_hist",
		Help:      "Request size",
	})

	colls := []prometheus.Collector{counterVec, resTime, resSize, reqSize}
	for _, v := range colls {
		if err := prometheus.Register(v); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if c, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					counterVec = c
				}
				continue
			}
			panic(err)
		}
	}

	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		duration := float64(time.Since(start)) * 1e-6

		status := strconv.Itoa(c.Response().StatusCode())
		routePath := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			routePath = r.Path
		}

		counterVec.WithLabelValues(status, c.Method(), routePath).Inc()
		resTime.Observe(duration)
		resSize.Observe(float64(len(c.Response().Body())))
		reqSize.Observe(float64(len(c.Body())))
		return err
	}
}
