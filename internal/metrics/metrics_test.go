package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil, false))
	assert.Equal(t, ResultRejected, Result(errors.New("x"), true))
	assert.Equal(t, ResultError, Result(errors.New("x"), false))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(queueOperations.WithLabelValues("finish", ResultOK))
	QueueOp("finish", ResultOK)
	assert.Equal(t, before+1, testutil.ToFloat64(queueOperations.WithLabelValues("finish", ResultOK)))

	orphanBefore := testutil.ToFloat64(orphanedSales)
	OrphanedSale()
	assert.Equal(t, orphanBefore+1, testutil.ToFloat64(orphanedSales))

	SetWaiting("4", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(queueWaiting.WithLabelValues("4")))
}
