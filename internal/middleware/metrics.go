package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kuyou_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// PointsAwarded tracks points credited to users, labeled by action.
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kuyou_points_awarded_total",
	Help: "Total points awarded to users.",
}, []string{"action"})

// PostsResolved counts best-answer resolutions.
var PostsResolved = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kuyou_posts_resolved_total",
	Help: "Total posts resolved by best-answer selection.",
})

// InitMetrics creates the Prometheus request instrumentation for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the per-request metrics handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
