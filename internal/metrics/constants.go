package metrics

const namespace = "bodgelab"

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameRebuildsTotal   = "catalog_rebuilds_total"
	MetricNameRebuildDuration = "catalog_rebuild_duration_seconds"
	MetricNameEpisodes        = "catalog_episodes"
	MetricNameIngestWarnings  = "ingest_warnings_total"
)

// Help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextRebuildsTotal   = "Catalog rebuilds by source (ingest or cache) and result"
	HelpTextRebuildDuration = "Time spent loading episodes and rebuilding the catalog"
	HelpTextEpisodes        = "Number of episodes in the current catalog snapshot"
	HelpTextIngestWarnings  = "Warnings raised while ingesting episode sources"
)

// Labels
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelSource = "source"
	LabelResult = "result"
)

// Label values
const (
	SourceIngest = "ingest"
	SourceCache  = "cache"

	ResultOK    = "ok"
	ResultError = "error"
)

var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

var RebuildBuckets = []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
