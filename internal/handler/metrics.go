package handler

import (
	"fmt"
	"net/http"

	"github.com/worklog/worklog/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "worklog_task_list_requests_total{outcome=\"ok\"} %d\n", snap.TaskListOK)
	writeMetric(w, "worklog_task_list_requests_total{outcome=\"invalid\"} %d\n", snap.TaskListInvalid)
	writeMetric(w, "worklog_task_list_requests_total{outcome=\"not_found\"} %d\n", snap.TaskListNotFound)
	writeMetric(w, "worklog_task_list_requests_total{outcome=\"error\"} %d\n", snap.TaskListErrors)
	writeMetric(w, "worklog_task_list_duration_seconds_count %d\n", snap.TaskListDurationCount)
	writeMetric(w, "worklog_task_list_duration_seconds_sum %.6f\n", float64(snap.TaskListDurationTotalNs)/1e9)

	writeMetric(w, "worklog_entries_created_total %d\n", snap.EntriesCreated)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
