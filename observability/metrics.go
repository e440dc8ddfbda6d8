package observability

import (
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesGeneratedTotal counts files written by the tokenizer, by how they
	// were produced (processed, copied).
	FilesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clide_files_generated_total",
			Help: "Total number of files written while processing templates",
		},
		[]string{"mode"},
	)

	// PathsSkippedTotal counts paths left out of a generation, by reason
	// (excluded, missing_tokens, empty_name).
	PathsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clide_paths_skipped_total",
			Help: "Total number of template paths skipped",
		},
		[]string{"reason"},
	)

	// DocumentsSavedTotal counts project and solution files saved.
	DocumentsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clide_documents_saved_total",
			Help: "Total number of project and solution files saved",
		},
		[]string{"kind"}, // project, solution
	)

	// TemplatesDiscoveredTotal counts templates found while scanning roots.
	TemplatesDiscoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clide_templates_discovered_total",
			Help: "Total number of templates found in template roots",
		},
		[]string{"root"},
	)
)

// GetCounterValue reads the current value of a counter with the given labels.
// Tests use it to assert on side effects.
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}
	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}
	return 0, nil
}
