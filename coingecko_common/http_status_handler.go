package coingecko_common

// Request statuses reported to IHttpStatusHandler
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusRateLimited = "rate_limited"
	StatusCanceled    = "canceled"
)

// IHttpStatusHandler is an interface for handling HTTP request statuses.
// metrics.MetricsWriter implements it.
type IHttpStatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
	// OnRetry handles retry events
	OnRetry()
}
