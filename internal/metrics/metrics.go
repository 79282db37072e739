package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Recipes
	RecipeSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_saves_total",
			Help: "Recipe aggregate saves by resulting status",
		},
		[]string{"status"},
	)

	RecipeValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_validation_failures_total",
			Help: "Rejected recipe submissions by requested status",
		},
		[]string{"target"},
	)

	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Admin moderation actions by action and outcome",
		},
		[]string{"action", "outcome"}, // outcome: "applied", "noop"
	)

	FavoriteToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorite_toggles_total",
			Help: "Favorite toggles by result",
		},
		[]string{"result"}, // "favorited", "unfavorited"
	)

	CatalogResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingredient_catalog_resolutions_total",
			Help: "Ingredient lookups by whether the entry already existed",
		},
		[]string{"result"}, // "hit", "created"
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Media uploads by folder and outcome",
		},
		[]string{"folder", "outcome"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"limiter"},
	)
)

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordModeration records an approve/reject attempt.
func RecordModeration(action string, applied bool) {
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	ModerationActions.WithLabelValues(action, outcome).Inc()
}

// RecordValidationFailure counts a rejected submission. target is the
// client-supplied status, so anything other than draft or pending is
// collapsed into "invalid" to keep the label set bounded.
func RecordValidationFailure(target string) {
	switch target {
	case "", "draft":
		target = "draft"
	case "pending":
	default:
		target = "invalid"
	}
	RecipeValidationFailures.WithLabelValues(target).Inc()
}
