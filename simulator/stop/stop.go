// Package stop implements berth occupancy, queue admission/egress
// discipline and passenger exchange at bus stops. Two variants exist:
// board-only and board-and-alight; the variant's operations are selected
// once at construction, not re-dispatched per tick.
package stop

import (
	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
)

var log = logrus.WithField("module", "stop")

// Stop is the common surface of all stop variants.
type Stop interface {
	ID() string
	// EnterStop accepts an arriving bus into the entry queue.
	EnterStop(b *bus.Bus, t int)
	// PaxArrive accepts passengers generated for this stop.
	PaxArrive(paxs []*pax.Pax)
	// Operation runs one tick of stop service and returns the buses that
	// leave the stop and the passengers that alighted and finished.
	Operation(t int) ([]*bus.Bus, []*pax.Pax)
	// Buses returns every bus at the stop (entry queue and berths).
	Buses() []*bus.Bus
	Snapshot() snapshot.StopSnapshot
	Log() *Log
}

// operations is the per-variant tick protocol; the base drives it in a
// fixed order.
type operations interface {
	enterBerth(t int)
	board(t int)
	alight(t int) []*pax.Pax
	checkLeave(t int)
	leave(t int) []*bus.Bus
}

// base carries the state shared by all variants: entry queue, berth
// array (index order upstream -> downstream), leave queue and event log.
type base struct {
	stopID      string
	berthNum    int
	hasSchedule bool
	queueRule   setup.QueueRule

	entryQueue   []*bus.Bus
	busesInBerth []*bus.Bus // nil = empty berth
	leaveQueue   []*bus.Bus

	paxQueue *PaxQueue
	stopLog  *Log

	ops operations
}

func newBase(stopID string, geometry setup.StopGeometry, operation setup.StopOperation,
	vb *virtualbus.VirtualBus, hasSchedule bool) base {
	return base{
		stopID:       stopID,
		berthNum:     geometry.BerthNum,
		hasSchedule:  hasSchedule,
		queueRule:    operation.QueueRule,
		busesInBerth: make([]*bus.Bus, geometry.BerthNum),
		paxQueue:     NewPaxQueue(stopID, operation.BoardTruncation),
		stopLog:      NewLog(stopID, vb, hasSchedule),
	}
}

func (s *base) ID() string { return s.stopID }

func (s *base) Log() *Log { return s.stopLog }

func (s *base) PaxArrive(paxs []*pax.Pax) {
	for _, p := range paxs {
		s.paxQueue.AddPax(p)
	}
}

// EnterStop records the arrival event (and its schedule deviation, using
// the pre-arrival event count as shift multiplier) and queues the bus.
func (s *base) EnterStop(b *bus.Bus, t int) {
	if s.hasSchedule {
		arrivalIdx := s.stopLog.ArrivalCount(b.RouteID())
		epsilon, _ := b.Log.RecordWhenArrival(s.stopID, t, arrivalIdx, true)
		s.stopLog.RecordWhenBusArrival(b.RouteID(), b.BusID(), t, epsilon, true)
	} else {
		b.Log.RecordWhenArrival(s.stopID, t, 0, false)
		s.stopLog.RecordWhenBusArrival(b.RouteID(), b.BusID(), t, 0, false)
	}
	s.entryQueue = append(s.entryQueue, b)
	b.SetStatus(snapshot.StatusQueueingAtStop)
}

// Operation runs one tick: berth admission, boarding, alighting, leave
// eligibility, leave, then waiting-delay accrual.
func (s *base) Operation(t int) ([]*bus.Bus, []*pax.Pax) {
	s.ops.enterBerth(t)
	s.ops.board(t)
	leavingPaxs := s.ops.alight(t)
	s.ops.checkLeave(t)
	leavingBuses := s.ops.leave(t)
	s.paxQueue.AccumulateOutVehicleDelay()
	return leavingBuses, leavingPaxs
}

func (s *base) Buses() []*bus.Bus {
	buses := append([]*bus.Bus(nil), s.entryQueue...)
	for _, b := range s.busesInBerth {
		if b != nil {
			buses = append(buses, b)
		}
	}
	return buses
}

func (s *base) Snapshot() snapshot.StopSnapshot {
	snap := snapshot.StopSnapshot{
		StopID:               s.stopID,
		PaxNum:               s.paxQueue.TotalPaxNum(),
		RouteArrivalTimeSeq:  s.stopLog.RouteArrivalTimeSeq,
		RouteArrivalBusIDSeq: s.stopLog.RouteArrivalBusIDSeq,
		RouteRTDTimeSeq:      s.stopLog.RouteRTDTimeSeq,
		RouteRTDBusIDSeq:     s.stopLog.RouteRTDBusIDSeq,
	}
	if s.hasSchedule {
		snap.RouteBusEpsilonArrival = s.stopLog.RouteBusEpsilonArrival
		snap.RouteBusEpsilonRTD = s.stopLog.RouteBusEpsilonRTD
	}
	return snap
}

// queueRuleCheckIn picks the target berth for the bus at the head of the
// entry queue, or -1 when no berth is admissible. FO backs into the
// most-upstream berth of the free run at the downstream end; FIFO pulls
// forward to the most-downstream free berth behind any occupant.
func (s *base) queueRuleCheckIn() int {
	target := -1
	switch s.queueRule {
	case setup.QueueRuleFO:
		for i := s.berthNum - 1; i >= 0; i-- {
			if s.busesInBerth[i] == nil {
				target = i
			} else {
				break
			}
		}
	case setup.QueueRuleFIFO:
		for i := 0; i < s.berthNum; i++ {
			if s.busesInBerth[i] == nil {
				target = i
			} else {
				break
			}
		}
	default:
		log.Panicf("stop %s: unknown queue rule %s", s.stopID, s.queueRule)
	}
	return target
}

// queueRuleCheckOut reports whether the berth at berthIdx may release:
// FO berths release independently, FIFO berths only once every
// downstream berth is empty.
func (s *base) queueRuleCheckOut(berthIdx int) bool {
	switch s.queueRule {
	case setup.QueueRuleFO:
		return true
	case setup.QueueRuleFIFO:
		for i := berthIdx + 1; i < s.berthNum; i++ {
			if s.busesInBerth[i] != nil {
				return false
			}
		}
		return true
	default:
		log.Panicf("stop %s: unknown queue rule %s", s.stopID, s.queueRule)
		return false
	}
}

// New constructs the stop variant selected by the node's operation
// policy.
func New(stopID string, geometry setup.StopGeometry, operation setup.StopOperation,
	vb *virtualbus.VirtualBus, hasSchedule bool) Stop {
	if operation.IsAlight {
		return NewBoardAlightStop(stopID, geometry, operation, vb, hasSchedule)
	}
	return NewBoardStop(stopID, geometry, operation, vb, hasSchedule)
}
