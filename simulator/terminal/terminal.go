// Package terminal dispatches new buses onto their routes at the
// schedule headway and recycles buses that reach the corridor's end.
package terminal

import (
	"fmt"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

// HoldPeriod is the half-open tick window in which dispatched buses
// count toward holding control.
type HoldPeriod struct {
	Start int
	End   int
}

type Terminal struct {
	terminalID string
	blueprint  *setup.Blueprint
	// routes dispatched from this terminal; empty for ending terminals
	routes []*setup.RouteDetails
	// per-route monotonically increasing dispatch counter; doubles as
	// the next bus id ("1", "2", ...; "0" is the virtual bus)
	routeRoundCount map[string]int
	// per-route next dispatch tick when headway is stochastic
	routeNextDispatch map[string]float64

	virtualBus *virtualbus.VirtualBus
	holdPeriod HoldPeriod
	engine     *randengine.Engine
}

func New(terminalID string, routes []*setup.RouteDetails, blueprint *setup.Blueprint,
	vb *virtualbus.VirtualBus, holdPeriod HoldPeriod, engine *randengine.Engine) *Terminal {
	t := &Terminal{
		terminalID:        terminalID,
		blueprint:         blueprint,
		routes:            routes,
		routeRoundCount:   make(map[string]int),
		routeNextDispatch: make(map[string]float64),
		virtualBus:        vb,
		holdPeriod:        holdPeriod,
		engine:            engine,
	}
	for _, route := range routes {
		t.routeRoundCount[route.RouteID] = 1
		t.routeNextDispatch[route.RouteID] = route.ScheduleHeadway
	}
	return t
}

func (tm *Terminal) ID() string { return tm.terminalID }

// Dispatch creates the buses leaving this terminal at tick t. With a
// deterministic headway the first bus departs one full headway after the
// episode starts and consecutive dispatches are exactly a headway apart;
// with a stochastic headway each interval is sampled around the schedule
// value.
func (tm *Terminal) Dispatch(t int) []*bus.Bus {
	var dispatching []*bus.Bus
	for _, route := range tm.routes {
		if !tm.isDispatchTick(route, t) {
			continue
		}
		busID := fmt.Sprintf("%d", tm.routeRoundCount[route.RouteID])
		needsHolding := tm.holdPeriod.Start < t && t < tm.holdPeriod.End

		b := bus.New(busID, route, tm.blueprint.RouteNodeDistance(route.RouteID), tm.virtualBus, needsHolding)
		b.Log.RecordWhenDispatch(t)
		dispatching = append(dispatching, b)
		tm.routeRoundCount[route.RouteID]++
	}
	return dispatching
}

// Recycle marks a bus that reached the ending terminal as finished.
func (tm *Terminal) Recycle(b *bus.Bus) {
	b.SetStatus(snapshot.StatusFinished)
}

func (tm *Terminal) isDispatchTick(route *setup.RouteDetails, t int) bool {
	if route.ScheduleHeadwayStd == 0 {
		return t > 0 && t%int(route.ScheduleHeadway) == 0
	}
	if float64(t) < tm.routeNextDispatch[route.RouteID] {
		return false
	}
	interval := tm.engine.Normal(route.ScheduleHeadway, route.ScheduleHeadwayStd)
	// a dispatch interval below one tick would double-dispatch
	if interval < 1 {
		interval = 1
	}
	tm.routeNextDispatch[route.RouteID] += interval
	return true
}
