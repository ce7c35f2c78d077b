package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheus_RecordsAssignmentRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.AssignmentRun("greedy_global", 3, 7, 1)
	p.AssignmentRun("greedy_global", 2, 4, 0)
	p.GroupsFormed(5)
	p.StoreError("list_volunteers")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.runs.WithLabelValues("greedy_global")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.staffedPosts))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.assigned))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.unassigned))
	assert.Equal(t, 5.0, testutil.ToFloat64(p.groups))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.storeErrors.WithLabelValues("list_volunteers")))
}

func TestPrometheus_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "")

	assert.Panics(t, func() { NewPrometheus(reg, "") })
}

func TestNop(t *testing.T) {
	var c Collector = Nop{}
	c.AssignmentRun("nearest_first", 1, 2, 3)
	c.GroupsFormed(1)
	c.StoreError("x")
}
