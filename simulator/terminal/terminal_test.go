package terminal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/terminal"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

func corridorBlueprint(headwayStd float64) *setup.Blueprint {
	return setup.NewHomogeneousBlueprint(config.ScenarioConfig{
		Name:            "homogeneous",
		RouteID:         "R1",
		StopNum:         3,
		BerthNum:        1,
		LinkLength:      600,
		TTMean:          60,
		Headway:         300,
		HeadwayStd:      headwayStd,
		QueueRule:       "FO",
		BoardTruncation: "rtd",
		Pax: config.PaxConfig{
			ArrivalType:   "deterministic",
			BoardTimeMean: 2,
			BoardTimeType: "deterministic",
		},
	})
}

func newTerminal(bp *setup.Blueprint, holdPeriod terminal.HoldPeriod) *terminal.Terminal {
	vb := virtualbus.New(bp)
	vb.InitializeWithPerfectSchedule(
		map[string]map[string]float64{"R1": bp.RouteStopArrivalRate("R1")}, 10)
	routes := bp.RouteSchema.TerminalRoutes()["0"]
	return terminal.New("0", routes, bp, vb, holdPeriod, randengine.New(1))
}

func TestDeterministicDispatch(t *testing.T) {
	bp := corridorBlueprint(0)
	tm := newTerminal(bp, terminal.HoldPeriod{Start: 3600, End: 10800})

	// no bus at episode start, then one per headway
	assert.Empty(t, tm.Dispatch(0))
	for tick := 1; tick < 300; tick++ {
		assert.Empty(t, tm.Dispatch(tick))
	}

	buses := tm.Dispatch(300)
	assert.Len(t, buses, 1)
	assert.Equal(t, "1", buses[0].BusID())
	assert.Equal(t, "R1", buses[0].RouteID())
	assert.Equal(t, 300, buses[0].Log.DispatchTime)

	buses = tm.Dispatch(600)
	assert.Equal(t, "2", buses[0].BusID())
}

func TestNeedsHoldingWindow(t *testing.T) {
	bp := corridorBlueprint(0)
	tm := newTerminal(bp, terminal.HoldPeriod{Start: 3600, End: 10800})

	// window bounds are exclusive
	assert.False(t, tm.Dispatch(300)[0].NeedsHolding())
	assert.False(t, tm.Dispatch(3600)[0].NeedsHolding())
	assert.True(t, tm.Dispatch(3900)[0].NeedsHolding())
	assert.True(t, tm.Dispatch(10500)[0].NeedsHolding())
	assert.False(t, tm.Dispatch(10800)[0].NeedsHolding())
}

func TestStochasticDispatch(t *testing.T) {
	bp := corridorBlueprint(30)
	tm := newTerminal(bp, terminal.HoldPeriod{Start: 0, End: 100000})

	var dispatchTicks []int
	for tick := 0; tick < 30000; tick++ {
		if len(tm.Dispatch(tick)) > 0 {
			dispatchTicks = append(dispatchTicks, tick)
		}
	}
	assert.NotEmpty(t, dispatchTicks)

	// intervals scatter around the schedule headway
	sum := 0
	for i := 1; i < len(dispatchTicks); i++ {
		interval := dispatchTicks[i] - dispatchTicks[i-1]
		assert.Greater(t, interval, 0)
		sum += interval
	}
	mean := float64(sum) / float64(len(dispatchTicks)-1)
	assert.InDelta(t, 300, mean, 30)
}

func TestRecycle(t *testing.T) {
	bp := corridorBlueprint(0)
	tm := newTerminal(bp, terminal.HoldPeriod{Start: 0, End: 100})

	b := tm.Dispatch(300)[0]
	tm.Recycle(b)
	assert.Equal(t, snapshot.StatusFinished, b.Status())
}
