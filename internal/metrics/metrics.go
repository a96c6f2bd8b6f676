// Package metrics defines Prometheus metrics for the Cereal server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts license validation verdicts by result
	// ("valid", "not_found", "expired").
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cereal",
		Name:      "license_validations_total",
		Help:      "License validation verdicts by result.",
	}, []string{"result"})

	// DownloadsTotal counts artifact download requests by outcome
	// ("served", "denied", "not_found").
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cereal",
		Name:      "artifact_downloads_total",
		Help:      "Artifact download requests by outcome.",
	}, []string{"outcome"})

	// UploadsTotal counts accepted artifact uploads, including
	// replacements of an existing (product, version) pair.
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cereal",
		Name:      "artifact_uploads_total",
		Help:      "Accepted artifact uploads.",
	})

	// UploadBytes tracks the size distribution of uploaded artifacts.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cereal",
		Name:      "artifact_upload_bytes",
		Help:      "Size of uploaded artifacts in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
	})
)
