package handler

import (
	"fmt"
	"net/http"

	"github.com/contactly/contactly/internal/metrics"
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

	writeMetric(w, "contactly_contacts_created_total %d\n", snap.ContactsCreated)
	writeMetric(w, "contactly_contacts_updated_total %d\n", snap.ContactsUpdated)
	writeMetric(w, "contactly_contacts_deleted_total %d\n", snap.ContactsDeleted)

	writeMetric(w, "contactly_search_duration_seconds_count %d\n", snap.SearchDurationCount)
	writeMetric(w, "contactly_search_duration_seconds_sum %.6f\n", float64(snap.SearchDurationTotalNs)/1e9)
	writeMetric(w, "contactly_birthday_lookup_duration_seconds_count %d\n", snap.BirthdayLookupDurationCount)
	writeMetric(w, "contactly_birthday_lookup_duration_seconds_sum %.6f\n", float64(snap.BirthdayLookupDurationTotalNs)/1e9)

	writeMetric(w, "contactly_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "contactly_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "contactly_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)
	writeMetric(w, "contactly_avatars_uploaded_total %d\n", snap.AvatarsUploaded)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
