package stop

import (
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
)

// BoardAlightStop serves boarding and alighting concurrently; a bus may
// leave only once both obligations are clear.
type BoardAlightStop struct {
	BoardStop
}

func NewBoardAlightStop(stopID string, geometry setup.StopGeometry, operation setup.StopOperation,
	vb *virtualbus.VirtualBus, hasSchedule bool) *BoardAlightStop {
	s := &BoardAlightStop{BoardStop{base: newBase(stopID, geometry, operation, vb, hasSchedule)}}
	s.ops = s
	return s
}

// alight advances each dwelling bus's alighting process by one second
// and collects the passengers whose trips end here.
func (s *BoardAlightStop) alight(t int) []*pax.Pax {
	var leavingPaxs []*pax.Pax
	for _, b := range s.busesInBerth {
		if b == nil {
			continue
		}
		if p := b.Alight(s.stopID); p != nil {
			p.AlightTime = t
			leavingPaxs = append(leavingPaxs, p)
		}
		b.UpdateLocation(t, bus.SpotStop, s.stopID, s.stopID, 0, snapshot.StatusDwellingAtStop)
	}
	return leavingPaxs
}

func (s *BoardAlightStop) checkLeave(t int) {
	for berthIdx, b := range s.busesInBerth {
		if b == nil {
			continue
		}
		if s.paxQueue.RemainingPaxNum(b) == 0 &&
			b.RemainingAlightPaxNum(s.stopID) == 0 &&
			s.queueRuleCheckOut(berthIdx) {
			s.busesInBerth[berthIdx] = nil
			s.leaveQueue = append(s.leaveQueue, b)
		}
	}
}
