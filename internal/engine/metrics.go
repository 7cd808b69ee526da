package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ExtractRequests    atomic.Int64
	ExtractErrors      atomic.Int64
	PageFetches        atomic.Int64
	PageFetchErrors    atomic.Int64
	EndpointCalls      atomic.Int64
	EndpointErrors     atomic.Int64
	LanguageFallbacks  atomic.Int64
	StructureDriftHits atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"extract_requests":     metrics.ExtractRequests.Load(),
		"extract_errors":       metrics.ExtractErrors.Load(),
		"page_fetches":         metrics.PageFetches.Load(),
		"page_fetch_errors":    metrics.PageFetchErrors.Load(),
		"endpoint_calls":       metrics.EndpointCalls.Load(),
		"endpoint_errors":      metrics.EndpointErrors.Load(),
		"language_fallbacks":   metrics.LanguageFallbacks.Load(),
		"structure_drift_hits": metrics.StructureDriftHits.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"extract_requests", "extract_errors",
		"page_fetches", "page_fetch_errors",
		"endpoint_calls", "endpoint_errors",
		"language_fallbacks", "structure_drift_hits",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the transcript sub-package.
func IncrExtractRequests()    { metrics.ExtractRequests.Add(1) }
func IncrExtractErrors()      { metrics.ExtractErrors.Add(1) }
func IncrPageFetches()        { metrics.PageFetches.Add(1) }
func IncrPageFetchErrors()    { metrics.PageFetchErrors.Add(1) }
func IncrEndpointCalls()      { metrics.EndpointCalls.Add(1) }
func IncrEndpointErrors()     { metrics.EndpointErrors.Add(1) }
func IncrLanguageFallbacks()  { metrics.LanguageFallbacks.Add(1) }
func IncrStructureDriftHits() { metrics.StructureDriftHits.Add(1) }
