package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
)

func sampleSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		T: 400,
		Buses: map[snapshot.BusKey]snapshot.BusSnapshot{
			{RouteID: "R1", BusID: "2"}: {
				BusID:                "2",
				RouteID:              "R1",
				StopEpsilonArrival:   map[string]float64{"1": 40},
				StopEpsilonRTD:       map[string]float64{"1": 34},
				StopEpsilonDeparture: map[string]float64{"1": 26},
			},
		},
		Stops: map[string]snapshot.StopSnapshot{
			"1": {
				StopID:               "1",
				RouteArrivalTimeSeq:  map[string][]float64{"R1": {60, 340, 400}},
				RouteArrivalBusIDSeq: map[string][]string{"R1": {"0", "1", "2"}},
				RouteRTDTimeSeq:      map[string][]float64{"R1": {66, 350, 400}},
				RouteRTDBusIDSeq:     map[string][]string{"R1": {"0", "1", "2"}},
				RouteBusEpsilonArrival: map[string]map[string]float64{
					"R1": {"0": 0, "1": -20, "2": 40},
				},
				RouteBusEpsilonRTD: map[string]map[string]float64{
					"R1": {"0": 0, "1": -16, "2": 34},
				},
			},
		},
		ActionRecord: make(map[snapshot.HoldKey]float64),
	}
}

func TestStopEpsilonReturnsPredecessor(t *testing.T) {
	snap := sampleSnapshot()

	arr, rtd := snap.StopEpsilon("R1", "1", "2")
	assert.Equal(t, -20.0, arr)
	assert.Equal(t, -16.0, rtd)

	// the first real bus falls back to the virtual bus
	arr, rtd = snap.StopEpsilon("R1", "1", "1")
	assert.Equal(t, 0.0, arr)
	assert.Equal(t, 0.0, rtd)
}

func TestBusEpsilon(t *testing.T) {
	snap := sampleSnapshot()
	arr, rtd := snap.BusEpsilon("R1", "2", "1")
	assert.Equal(t, 40.0, arr)
	assert.Equal(t, 34.0, rtd)
}

func TestHolderEpsilon(t *testing.T) {
	snap := sampleSnapshot()
	assert.Equal(t, 26.0, snap.HolderEpsilon("1", "R1", "2"))
	assert.Panics(t, func() { snap.HolderEpsilon("1", "R1", "9") })
}

func TestLastRTDTime(t *testing.T) {
	snap := sampleSnapshot()
	assert.Equal(t, 350.0, snap.LastRTDTime("R1", "1"))
}

func TestRecordHoldingTime(t *testing.T) {
	snap := sampleSnapshot()
	key := snapshot.HoldKey{StopID: "1", RouteID: "R1", BusID: "2"}
	snap.RecordHoldingTime(map[snapshot.HoldKey]float64{key: 110})
	assert.Equal(t, 110.0, snap.ActionRecord[key])
}

func TestVirtualBusHasNoPredecessor(t *testing.T) {
	snap := sampleSnapshot()
	assert.Panics(t, func() { snap.StopEpsilon("R1", "1", "0") })
}
