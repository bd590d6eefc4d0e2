package link_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/link"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

func corridorBlueprint() *setup.Blueprint {
	return setup.NewHomogeneousBlueprint(config.ScenarioConfig{
		Name:            "homogeneous",
		RouteID:         "R1",
		StopNum:         3,
		BerthNum:        1,
		LinkLength:      600,
		TTMean:          60,
		TTCV:            0,
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

func newBus(bp *setup.Blueprint, busID string) *bus.Bus {
	route := bp.RouteSchema.Route("R1")
	return bus.New(busID, route, bp.RouteNodeDistance("R1"), virtualbus.New(bp), false)
}

func TestDeterministicTraversal(t *testing.T) {
	bp := corridorBlueprint()
	l := link.New("link-0", bp.Network.LinkGeometry("link-0"),
		bp.Network.LinkDistribution("link-0"), randengine.New(1))
	b := newBus(bp, "1")

	l.EnterBus(b, 0)
	assert.Equal(t, 10.0, b.Speed)
	assert.Equal(t, 0.0, b.Log.LinkTTDeviation["link-0"])
	assert.Len(t, l.Buses(), 1)

	// 600m at 10m/s: the bus reaches the tail node on the 60th tick
	for tick := 0; tick < 59; tick++ {
		assert.Empty(t, l.Forward(tick))
	}
	finished := l.Forward(59)
	assert.Len(t, finished, 1)
	assert.Equal(t, "1", finished[0].BusID())
	assert.Empty(t, l.Buses())
}

func TestForwardUpdatesLocation(t *testing.T) {
	bp := corridorBlueprint()
	l := link.New("link-1", bp.Network.LinkGeometry("link-1"),
		bp.Network.LinkDistribution("link-1"), randengine.New(1))
	b := newBus(bp, "1")

	// link-1 starts at stop "1", 600m from the terminal
	l.EnterBus(b, 100)
	assert.Equal(t, 600.0, b.LocRelativeToTerminal)
	l.Forward(101)
	assert.Equal(t, 610.0, b.LocRelativeToTerminal)
	l.Forward(102)
	assert.Equal(t, 620.0, b.LocRelativeToTerminal)
}

func TestEntryOrderPreserved(t *testing.T) {
	bp := corridorBlueprint()
	l := link.New("link-0", bp.Network.LinkGeometry("link-0"),
		bp.Network.LinkDistribution("link-0"), randengine.New(1))

	l.EnterBus(newBus(bp, "1"), 0)
	l.Forward(0)
	l.EnterBus(newBus(bp, "2"), 1)

	buses := l.Buses()
	assert.Equal(t, "1", buses[0].BusID())
	assert.Equal(t, "2", buses[1].BusID())
}

func TestTravelTimeFloor(t *testing.T) {
	bp := corridorBlueprint()
	l := link.New("short", setup.LinkGeometry{HeadNode: "0", TailNode: "1", Length: 600},
		setup.LinkDistribution{TTMean: 5, TTCV: 0, TTType: "normal"}, randengine.New(1))
	b := newBus(bp, "1")

	// a 5s draw is clamped to the 10s floor
	l.EnterBus(b, 0)
	assert.Equal(t, 60.0, b.Speed)
	assert.Equal(t, 5.0, b.Log.LinkTTDeviation["short"])
}
