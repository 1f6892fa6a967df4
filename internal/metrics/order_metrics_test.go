package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOrderMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordOrderCreated()
	m.RecordOrderCreated()
	m.RecordIdempotentReplay()
	m.RecordOrderPaid()
	m.RecordOrderCancelled()
	m.RecordInsufficientStock()
	m.RecordFailure("create")
	m.RecordFailure("create")
	m.RecordFailure("pay")
	m.RecordCreateDuration(42 * time.Millisecond)

	if got := testutil.ToFloat64(m.ordersCreated); got != 2 {
		t.Errorf("orders created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ordersReplayed); got != 1 {
		t.Errorf("replays = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ordersPaid); got != 1 {
		t.Errorf("paid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ordersCancelled); got != 1 {
		t.Errorf("cancelled = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.insufficientStock); got != 1 {
		t.Errorf("insufficient stock = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.orderFailures.WithLabelValues("create")); got != 2 {
		t.Errorf("create failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.orderFailures.WithLabelValues("pay")); got != 1 {
		t.Errorf("pay failures = %v, want 1", got)
	}
}

func TestOrderMetricsReregistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newOrderMetricsWithRegisterer(registry)
	second := newOrderMetricsWithRegisterer(registry)

	// Повторная регистрация переиспользует существующие коллекторы.
	first.RecordOrderCreated()
	second.RecordOrderCreated()
	if got := testutil.ToFloat64(second.ordersCreated); got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}
