package idhash

import (
	"testing"
	"time"
)

func TestComputeAlertID_Deterministic(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	id1 := ComputeAlertID("AAPL", "volume_spike", ts)
	id2 := ComputeAlertID("AAPL", "volume_spike", ts)

	if id1 != id2 {
		t.Errorf("expected identical IDs for identical inputs, got %s and %s", id1, id2)
	}
}

func TestComputeAlertID_DistinctInputs(t *testing.T) {
	ts := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	base := ComputeAlertID("AAPL", "volume_spike", ts)

	if got := ComputeAlertID("TSLA", "volume_spike", ts); got == base {
		t.Error("different symbol must produce a different ID")
	}
	if got := ComputeAlertID("AAPL", "rsi_extreme", ts); got == base {
		t.Error("different alert type must produce a different ID")
	}
	if got := ComputeAlertID("AAPL", "volume_spike", ts.Add(time.Millisecond)); got == base {
		t.Error("different timestamp must produce a different ID")
	}
}

func TestComputeAlertID_TimezoneInsensitive(t *testing.T) {
	utc := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	if ComputeAlertID("AAPL", "volume_spike", utc) != ComputeAlertID("AAPL", "volume_spike", est) {
		t.Error("IDs must not depend on the timestamp's location")
	}
}

func TestComputeTradeID_Deterministic(t *testing.T) {
	entry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	id1 := ComputeTradeID("AAPL", "vol-spike-3x", entry)
	id2 := ComputeTradeID("AAPL", "vol-spike-3x", entry)

	if id1 != id2 {
		t.Errorf("expected identical IDs, got %s and %s", id1, id2)
	}
	if id1 == ComputeTradeID("AAPL", "other-strategy", entry) {
		t.Error("different strategy must produce a different ID")
	}
}
