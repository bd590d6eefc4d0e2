package holder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/holder"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
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
		ODRate:          0.01,
		QueueRule:       "FO",
		BoardTruncation: "rtd",
		Pax: config.PaxConfig{
			ArrivalType:   "deterministic",
			BoardTimeMean: 2,
			BoardTimeType: "deterministic",
		},
	})
}

func fixture(t *testing.T) (*holder.Holder, func(busID string) *bus.Bus) {
	t.Helper()
	bp := corridorBlueprint()
	vb := virtualbus.New(bp)
	vb.InitializeWithPerfectSchedule(
		map[string]map[string]float64{"R1": bp.RouteStopArrivalRate("R1")}, 10)
	h := holder.New(vb, true)
	return h, func(busID string) *bus.Bus {
		return bus.New(busID, bp.RouteSchema.Route("R1"), bp.RouteNodeDistance("R1"), vb, true)
	}
}

func key(stopID, busID string) snapshot.HoldKey {
	return snapshot.HoldKey{StopID: stopID, RouteID: "R1", BusID: busID}
}

func TestUndecidedBusIsNeverReleased(t *testing.T) {
	h, newBus := fixture(t)
	b := newBus("1")
	h.AddBus("1", b, 400)

	assert.Equal(t, snapshot.StatusHolding, b.Status())
	assert.Equal(t, []snapshot.HoldKey{key("1", "1")}, h.Snapshot().ActionBuses)

	for tick := 400; tick < 500; tick++ {
		assert.Empty(t, h.Operation(tick))
	}
}

func TestHoldElapsesThenReleases(t *testing.T) {
	h, newBus := fixture(t)
	b := newBus("1")
	h.AddBus("1", b, 400)

	assert.Nil(t, h.SetHoldAction(map[snapshot.HoldKey]float64{key("1", "1"): 2}))
	// a decided bus no longer asks for an action
	assert.Empty(t, h.Snapshot().ActionBuses)

	assert.Empty(t, h.Operation(401))
	released := h.Operation(402)
	assert.Len(t, released["1"], 1)
	assert.Equal(t, "1", released["1"][0].BusID())

	assert.Equal(t, 402, b.Log.StopDepartureTime["1"])
	// reference departure 76, one headway shift for the virtual bus
	assert.InDelta(t, 26.0, b.Log.StopEpsilonDeparture["1"], 1e-9)
	assert.Empty(t, h.Buses())
}

func TestZeroHoldReleasesNextOperation(t *testing.T) {
	h, newBus := fixture(t)
	h.AddBus("1", newBus("1"), 400)

	assert.Nil(t, h.SetHoldAction(map[snapshot.HoldKey]float64{key("1", "1"): 0}))
	released := h.Operation(401)
	assert.Len(t, released["1"], 1)
}

func TestSetHoldActionErrors(t *testing.T) {
	h, newBus := fixture(t)
	h.AddBus("1", newBus("1"), 400)

	err := h.SetHoldAction(map[snapshot.HoldKey]float64{key("1", "2"): 10})
	assert.NotNil(t, err)

	assert.Nil(t, h.SetHoldAction(map[snapshot.HoldKey]float64{key("1", "1"): 10}))
	err = h.SetHoldAction(map[snapshot.HoldKey]float64{key("1", "1"): 10})
	assert.NotNil(t, err)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	h, newBus := fixture(t)
	b := newBus("1")
	h.AddBus("1", b, 400)
	assert.Panics(t, func() { h.AddBus("1", b, 401) })
}

func TestReleaseInRegistrationOrder(t *testing.T) {
	h, newBus := fixture(t)
	a, b := newBus("1"), newBus("2")
	h.AddBus("1", a, 400)
	h.AddBus("1", b, 410)

	assert.Nil(t, h.SetHoldAction(map[snapshot.HoldKey]float64{
		key("1", "1"): 1,
		key("1", "2"): 1,
	}))
	released := h.Operation(411)
	assert.Len(t, released["1"], 2)
	assert.Equal(t, "1", released["1"][0].BusID())
	assert.Equal(t, "2", released["1"][1].BusID())

	seq := h.Log().RouteStopDepartureBusIDSeq["R1"]["1"]
	assert.Equal(t, []string{"0", "1", "2"}, seq)
}
