// Package kernel assembles the HTTP handler: global middleware, /metrics
// and the API routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/foodhub/app/routes"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
	"github.com/shashiranjanraj/foodhub/pkg/middleware"
	"github.com/shashiranjanraj/foodhub/pkg/reqid"
	"github.com/shashiranjanraj/foodhub/pkg/response"
	"github.com/shashiranjanraj/foodhub/pkg/router"
)

// Router builds the route table with the global middleware installed.
func Router(d routes.Deps) *router.Router {
	r := router.New()

	// Outermost first: metrics see total latency, recovery guards
	// everything after it, and the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSOptionsFromConfig()))
	r.Use(middleware.RateLimit(config.Int("RATE_LIMIT_PER_MINUTE", 200), time.Minute))

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.NotFound)

	r.Get("/metrics", "metrics", metrics.Handler())
	routes.Register(r, d)
	return r
}

// Handler is Router(d).Handler().
func Handler(d routes.Deps) http.Handler {
	return Router(d).Handler()
}
