package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetActive(t *testing.T) {
	SetActive(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(AgentActive))

	SetActive(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(AgentActive))
}

func TestModelSelectionsCounter(t *testing.T) {
	c := ModelSelections.WithLabelValues("qwen2.5-coder:7b", "Default fallback")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
