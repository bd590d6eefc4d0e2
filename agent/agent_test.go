package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/agent"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

func corridorBlueprint() *setup.Blueprint {
	return setup.NewHomogeneousBlueprint(config.ScenarioConfig{
		Name:            "homogeneous",
		RouteID:         "R1",
		StopNum:         3,
		BerthNum:        1,
		LinkLength:      600,
		TTMean:          60,
		Headway:         300,
		QueueRule:       "FO",
		BoardTruncation: "rtd",
		Pax: config.PaxConfig{
			ArrivalType:   "deterministic",
			BoardTimeMean: 2,
			BoardTimeType: "deterministic",
		},
	})
}

func holdKey(busID string) snapshot.HoldKey {
	return snapshot.HoldKey{StopID: "1", RouteID: "R1", BusID: busID}
}

func busKey(busID string) snapshot.BusKey {
	return snapshot.BusKey{RouteID: "R1", BusID: busID}
}

// corridorSnapshot places bus "2" at the holder of stop "1" with a bus
// ahead and a bus behind, the previous RTD event 350s into the episode.
func corridorSnapshot(needsHolding bool) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		T: 400,
		Buses: map[snapshot.BusKey]snapshot.BusSnapshot{
			busKey("1"): {BusID: "1", RouteID: "R1", LocRelativeToTerminal: 1200},
			busKey("2"): {BusID: "2", RouteID: "R1", NeedsHolding: needsHolding, LocRelativeToTerminal: 600},
			busKey("3"): {BusID: "3", RouteID: "R1", LocRelativeToTerminal: 100},
		},
		Stops: map[string]snapshot.StopSnapshot{
			"1": {
				StopID:          "1",
				RouteRTDTimeSeq: map[string][]float64{"R1": {66, 350, 400}},
			},
		},
		Holder: snapshot.HolderSnapshot{ActionBuses: []snapshot.HoldKey{holdKey("2")}},
	}
}

func TestFactory(t *testing.T) {
	bp := corridorBlueprint()

	for name, want := range map[string]string{
		"do_nothing":      "do_nothing",
		"fixed_hold":      "fixed_hold",
		"forward_headway": "forward_headway",
	} {
		a, err := agent.New(config.AgentConfig{Name: name}, bp)
		assert.Nil(t, err)
		assert.Equal(t, want, a.Name())
	}

	_, err := agent.New(config.AgentConfig{Name: "teleport"}, bp)
	assert.NotNil(t, err)
}

func TestDoNothing(t *testing.T) {
	a := agent.NewDoNothing()
	holdTimes := a.CalculateHoldTime(corridorSnapshot(true))

	assert.Len(t, holdTimes, 1)
	assert.Equal(t, 0.0, holdTimes[holdKey("2")])
}

func TestFixedHold(t *testing.T) {
	a := agent.NewFixedHold(40)

	holdTimes := a.CalculateHoldTime(corridorSnapshot(true))
	assert.Equal(t, 40.0, holdTimes[holdKey("2")])

	// buses outside the holding window pass through unheld
	holdTimes = a.CalculateHoldTime(corridorSnapshot(false))
	assert.Equal(t, 0.0, holdTimes[holdKey("2")])
}

func TestForwardHeadway(t *testing.T) {
	bp := corridorBlueprint()
	a := agent.NewForwardHeadway(bp, 0.4, 10)

	// forward headway 400-350=50s, 250s short of schedule:
	// 0.4*250 + 10 = 110
	holdTimes := a.CalculateHoldTime(corridorSnapshot(true))
	assert.InDelta(t, 110.0, holdTimes[holdKey("2")], 1e-9)

	holdTimes = a.CalculateHoldTime(corridorSnapshot(false))
	assert.Equal(t, 0.0, holdTimes[holdKey("2")])
}

func TestForwardHeadwayFloorsAtZero(t *testing.T) {
	bp := corridorBlueprint()
	a := agent.NewForwardHeadway(bp, 0.4, 10)

	// a gap already wider than the schedule earns no hold
	snap := corridorSnapshot(true)
	snap.Stops["1"] = snapshot.StopSnapshot{
		StopID:          "1",
		RouteRTDTimeSeq: map[string][]float64{"R1": {-50, 400}},
	}
	holdTimes := a.CalculateHoldTime(snap)
	assert.Equal(t, 0.0, holdTimes[holdKey("2")])
}

func TestForwardHeadwayIsolatedBus(t *testing.T) {
	bp := corridorBlueprint()
	a := agent.NewForwardHeadway(bp, 0.4, 10)

	snap := corridorSnapshot(true)
	// no bus behind: spacing is unbounded and no hold applies
	delete(snap.Buses, busKey("3"))
	holdTimes := a.CalculateHoldTime(snap)
	assert.Equal(t, 0.0, holdTimes[holdKey("2")])
}
