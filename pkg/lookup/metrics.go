package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("pkg/lookup")

var (
	lookupBuildCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asyncseq",
		Name:      "lookup_build_count",
		Help:      "The total number of lookups built, partitioned by outcome.",
	}, []string{"outcome"})

	lookupResizeCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "asyncseq",
		Name:      "lookup_resize_count",
		Help:      "The total number of times a lookup table grew its bucket array.",
	})

	lookupGroupsHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "asyncseq",
		Name:      "lookup_groups",
		Help:      "The number of distinct keys in a successfully built lookup.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
)
