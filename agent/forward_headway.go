package agent

import (
	"math"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
)

// ForwardHeadway implements forward-headway-based holding: a bus ready
// to depart a stop is held by alpha times its headway surplus over the
// schedule, plus a constant slack, floored at zero. The headway h is
// measured from the previous ready-to-depart event at the same stop.
type ForwardHeadway struct {
	blueprint *setup.Blueprint
	alpha     float64
	slack     float64
}

func NewForwardHeadway(blueprint *setup.Blueprint, alpha, slack float64) *ForwardHeadway {
	return &ForwardHeadway{blueprint: blueprint, alpha: alpha, slack: slack}
}

func (a *ForwardHeadway) Name() string { return "forward_headway" }

func (a *ForwardHeadway) CalculateHoldTime(snap *snapshot.Snapshot) map[snapshot.HoldKey]float64 {
	holdTimes := make(map[snapshot.HoldKey]float64, len(snap.Holder.ActionBuses))
	for _, key := range snap.Holder.ActionBuses {
		bs, ok := snap.Buses[snapshot.BusKey{RouteID: key.RouteID, BusID: key.BusID}]
		if !ok {
			log.Panicf("bus %s/%s registered at holder but missing from snapshot", key.RouteID, key.BusID)
		}
		if !bs.NeedsHolding {
			holdTimes[key] = 0
			continue
		}

		// a bus with no neighbor has no headway to correct
		forward, backward := forwardBackwardSpacing(snap, key.BusID)
		if math.IsInf(forward, 1) || math.IsInf(backward, 1) {
			holdTimes[key] = 0
			continue
		}

		scheduleHeadway := a.blueprint.RouteSchema.Route(key.RouteID).ScheduleHeadway
		headway := float64(snap.T) - snap.LastRTDTime(key.RouteID, key.StopID)
		holdTimes[key] = math.Max(0, a.alpha*(scheduleHeadway-headway)+a.slack)
	}
	return holdTimes
}

func (a *ForwardHeadway) Reset(episode int) {}
