package stop

import (
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
)

// BoardStop is the boarding-only stop variant: passengers board but
// nobody alights here.
type BoardStop struct {
	base
}

func NewBoardStop(stopID string, geometry setup.StopGeometry, operation setup.StopOperation,
	vb *virtualbus.VirtualBus, hasSchedule bool) *BoardStop {
	s := &BoardStop{base: newBase(stopID, geometry, operation, vb, hasSchedule)}
	s.ops = s
	return s
}

// enterBerth admits the head of the entry queue into the berth the
// queue rule selects, then charges one second of queueing delay to every
// bus still waiting.
func (s *BoardStop) enterBerth(t int) {
	if len(s.entryQueue) > 0 {
		if target := s.queueRuleCheckIn(); target >= 0 {
			head := s.entryQueue[0]
			s.busesInBerth[target] = head
			head.SetStatus(snapshot.StatusDwellingAtStop)
			s.entryQueue = s.entryQueue[1:]
		}
	}
	for _, b := range s.entryQueue {
		b.Log.RecordWhenQueue(s.stopID)
		b.UpdateLocation(t, bus.SpotStop, s.stopID, s.stopID, 0, snapshot.StatusQueueingAtStop)
	}
}

func (s *BoardStop) board(t int) {
	for _, b := range s.busesInBerth {
		if b == nil {
			continue
		}
		s.paxQueue.Board(b, t)
		b.Log.RecordWhenDwell(s.stopID)
		b.UpdateLocation(t, bus.SpotStop, s.stopID, s.stopID, 0, snapshot.StatusDwellingAtStop)
	}
}

// alight is a no-op for the boarding-only variant.
func (s *BoardStop) alight(t int) []*pax.Pax {
	return nil
}

// checkLeave moves buses with no remaining boarding obligation out of
// their berth when the queue rule permits.
func (s *BoardStop) checkLeave(t int) {
	for berthIdx, b := range s.busesInBerth {
		if b == nil {
			continue
		}
		if s.paxQueue.RemainingPaxNum(b) == 0 && s.queueRuleCheckOut(berthIdx) {
			s.busesInBerth[berthIdx] = nil
			s.leaveQueue = append(s.leaveQueue, b)
		}
	}
}

// leave records the ready-to-depart event (with its schedule deviation)
// for every bus cleared this tick and releases them to the mediator.
func (s *BoardStop) leave(t int) []*bus.Bus {
	leaving := s.leaveQueue
	s.leaveQueue = nil
	for _, b := range leaving {
		if s.hasSchedule {
			rtdIdx := s.stopLog.RTDCount(b.RouteID())
			epsilon, _ := b.Log.RecordWhenRTD(s.stopID, t, rtdIdx, true)
			s.stopLog.RecordWhenBusRTD(b.RouteID(), b.BusID(), t, epsilon, true)
		} else {
			b.Log.RecordWhenRTD(s.stopID, t, 0, false)
			s.stopLog.RecordWhenBusRTD(b.RouteID(), b.BusID(), t, 0, false)
		}
	}
	return leaving
}
