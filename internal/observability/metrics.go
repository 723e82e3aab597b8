package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	enrollmentOutcomes     *prometheus.CounterVec
	documentUploadsTotal   *prometheus.CounterVec
	documentRejectedTotal  *prometheus.CounterVec
	documentUploadDuration prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escolar_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escolar_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		enrollmentOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escolar_enrollment_outcomes_total",
			Help: "Enrollment attempts partitioned by outcome.",
		}, []string{"outcome"})

		documentUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escolar_document_uploads_total",
			Help: "Accepted medical document uploads by MIME type.",
		}, []string{"mime"})

		documentRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escolar_document_uploads_rejected_total",
			Help: "Rejected medical document uploads by reason.",
		}, []string{"reason"})

		documentUploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "escolar_document_upload_seconds",
			Help:    "Duration of the document upload workflow.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			enrollmentOutcomes,
			documentUploadsTotal,
			documentRejectedTotal,
			documentUploadDuration,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// EnrollmentOutcomes exposes the enrollment outcome counter.
func EnrollmentOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentOutcomes
}

// DocumentUploads exposes the accepted upload counter.
func DocumentUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return documentUploadsTotal
}

// DocumentUploadsRejected exposes the rejected upload counter.
func DocumentUploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return documentRejectedTotal
}

// DocumentUploadLatency exposes the upload duration histogram.
func DocumentUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return documentUploadDuration
}
