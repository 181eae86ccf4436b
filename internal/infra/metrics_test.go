package infra

import (
	"sync"
	"testing"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := &Metrics{}

	m.RecordOrderPlaced()
	m.RecordOrderPlaced()
	m.RecordOrderRejected()
	m.RecordExchangeRejection()
	m.RecordTransportError()
	m.RecordQuery()

	snap := m.Snapshot()
	if snap.OrdersPlaced != 2 {
		t.Errorf("expected 2 placed, got %d", snap.OrdersPlaced)
	}
	if snap.OrdersRejected != 1 {
		t.Errorf("expected 1 rejected, got %d", snap.OrdersRejected)
	}
	if snap.ExchangeRejections != 1 || snap.TransportErrors != 1 || snap.Queries != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	m := &Metrics{}
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordOrderPlaced()
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().OrdersPlaced; got != 5000 {
		t.Errorf("expected 5000 placed, got %d", got)
	}
}
