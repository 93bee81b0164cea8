package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordQuoteFetch(t *testing.T) {
	before := counterValue(t, QuoteFetchesTotal, "success")
	RecordQuoteFetch("success")
	assert.Equal(t, before+1, counterValue(t, QuoteFetchesTotal, "success"))
}

func TestRecordSummary(t *testing.T) {
	before := counterValue(t, SummariesTotal, "extractive")
	RecordSummary("extractive", 15*time.Millisecond)
	assert.Equal(t, before+1, counterValue(t, SummariesTotal, "extractive"))
}

func TestRecordTranslation(t *testing.T) {
	before := counterValue(t, TranslationsTotal, "google", "failure")
	RecordTranslation("google", "failure")
	assert.Equal(t, before+1, counterValue(t, TranslationsTotal, "google", "failure"))
}
