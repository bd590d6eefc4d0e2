package agent

import "github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"

// FixedHold holds every controlled bus for the same configured time at
// every hold stop. Buses dispatched outside the holding window pass
// through unheld.
type FixedHold struct {
	holdTime float64
}

func NewFixedHold(holdTime float64) *FixedHold {
	return &FixedHold{holdTime: holdTime}
}

func (a *FixedHold) Name() string { return "fixed_hold" }

func (a *FixedHold) CalculateHoldTime(snap *snapshot.Snapshot) map[snapshot.HoldKey]float64 {
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
		holdTimes[key] = a.holdTime
	}
	return holdTimes
}

func (a *FixedHold) Reset(episode int) {}
