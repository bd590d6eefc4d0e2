// Package holder implements the central hold-time scheduler. Buses that
// finish stop service at a hold stop are registered with an undecided
// hold time; the external decision-maker assigns each registration a
// duration exactly once, and the holder releases the bus when the
// duration has elapsed. Assignment happens in the tick the decision is
// made and decrementing starts the following tick, so the decision-maker
// always sees the newly arrived bus as undecided and its decision is in
// effect before the bus can depart.
package holder

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/container"
)

var log = logrus.WithField("module", "holder")

type entry struct {
	bus       *bus.Bus
	remaining float64
	decided   bool
}

type Holder struct {
	hasSchedule bool

	// registration order determines release processing order
	entries *container.OrderedMap[snapshot.HoldKey, *entry]

	holderLog *Log
}

func New(vb *virtualbus.VirtualBus, hasSchedule bool) *Holder {
	return &Holder{
		hasSchedule: hasSchedule,
		entries:     container.NewOrderedMap[snapshot.HoldKey, *entry](),
		holderLog:   NewLog(vb, hasSchedule),
	}
}

func (h *Holder) HasSchedule() bool { return h.hasSchedule }
func (h *Holder) Log() *Log         { return h.holderLog }

// AddBus registers a bus released by stopID with an undecided hold time.
func (h *Holder) AddBus(stopID string, b *bus.Bus, t int) {
	key := snapshot.HoldKey{StopID: stopID, RouteID: b.RouteID(), BusID: b.BusID()}
	if h.entries.Has(key) {
		log.Panicf("bus %s/%s already registered at holder of stop %s", b.RouteID(), b.BusID(), stopID)
	}
	h.entries.Set(key, &entry{bus: b})
	b.SetStatus(snapshot.StatusHolding)
	b.UpdateLocation(t, bus.SpotHolder, stopID, stopID, 0, snapshot.StatusHolding)
}

// SetHoldAction assigns the decision-maker's hold durations. At most one
// assignment per registration: a second assignment, or one for an
// unknown registration, is an invariant violation.
func (h *Holder) SetHoldAction(holdTimes map[snapshot.HoldKey]float64) error {
	for key, holdTime := range holdTimes {
		e, ok := h.entries.Get(key)
		if !ok {
			return fmt.Errorf("hold action for unregistered bus %s/%s at stop %s", key.RouteID, key.BusID, key.StopID)
		}
		if e.decided {
			return fmt.Errorf("hold time already assigned for bus %s/%s at stop %s", key.RouteID, key.BusID, key.StopID)
		}
		e.remaining = holdTime
		e.decided = true
	}
	return nil
}

// Operation decrements every decided hold by one second and releases the
// expired ones, finalizing their departure bookkeeping. Undecided
// entries are left untouched. Returns released buses grouped by stop, in
// registration order.
func (h *Holder) Operation(t int) map[string][]*bus.Bus {
	released := make(map[string][]*bus.Bus)
	for _, key := range h.entries.Keys() {
		e, _ := h.entries.Get(key)
		if !e.decided {
			continue
		}
		e.remaining -= 1.0
		e.bus.UpdateLocation(t, bus.SpotHolder, key.StopID, key.StopID, 0, snapshot.StatusHolding)
		if e.remaining > 0 {
			continue
		}

		if h.hasSchedule {
			departureIdx := h.holderLog.DepartureCount(key.RouteID, key.StopID)
			epsilon, _ := e.bus.Log.RecordWhenDeparture(key.StopID, t, departureIdx, true)
			h.holderLog.RecordWhenBusDeparture(key.StopID, key.RouteID, key.BusID, t, epsilon, true)
		} else {
			e.bus.Log.RecordWhenDeparture(key.StopID, t, 0, false)
			h.holderLog.RecordWhenBusDeparture(key.StopID, key.RouteID, key.BusID, t, 0, false)
		}

		released[key.StopID] = append(released[key.StopID], e.bus)
		h.entries.Delete(key)
	}
	return released
}

// Buses returns every held bus keyed by registration.
func (h *Holder) Buses() map[snapshot.HoldKey]*bus.Bus {
	buses := make(map[snapshot.HoldKey]*bus.Bus, h.entries.Len())
	for _, key := range h.entries.Keys() {
		e, _ := h.entries.Get(key)
		buses[key] = e.bus
	}
	return buses
}

// Snapshot exposes the undecided registrations (the "needs decision"
// list) and the departure history.
func (h *Holder) Snapshot() snapshot.HolderSnapshot {
	snap := snapshot.HolderSnapshot{
		ActionBuses:                h.undecidedKeys(),
		RouteStopDepartureTimeSeq:  h.holderLog.RouteStopDepartureTimeSeq,
		RouteStopDepartureBusIDSeq: h.holderLog.RouteStopDepartureBusIDSeq,
	}
	if h.hasSchedule {
		snap.RouteStopBusEpsilonDeparture = h.holderLog.RouteStopBusEpsilonDeparture
	}
	return snap
}

func (h *Holder) undecidedKeys() []snapshot.HoldKey {
	var keys []snapshot.HoldKey
	for _, key := range h.entries.Keys() {
		if e, _ := h.entries.Get(key); !e.decided {
			keys = append(keys, key)
		}
	}
	return keys
}
