package observability_test

import (
	"testing"

	"mercuri/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(observability.AcceptTotal.WithLabelValues("already_resolved"))

	observability.AcceptTotal.WithLabelValues("already_resolved").Inc()

	assert.InDelta(t, before+1, testutil.ToFloat64(observability.AcceptTotal.WithLabelValues("already_resolved")), 0)
}

func TestMetricNames(t *testing.T) {
	observability.ReaperSwept.WithLabelValues("offer").Add(0)

	assert.Equal(t, 1, testutil.CollectAndCount(observability.ReaperSwept, "mercuri_reaper_swept_total"))
}
