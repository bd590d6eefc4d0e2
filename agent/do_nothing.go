package agent

import "github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"

// DoNothing assigns a zero hold to every bus, i.e. uncontrolled
// operation. It is the baseline every controlled run is compared to.
type DoNothing struct{}

func NewDoNothing() *DoNothing { return &DoNothing{} }

func (a *DoNothing) Name() string { return "do_nothing" }

func (a *DoNothing) CalculateHoldTime(snap *snapshot.Snapshot) map[snapshot.HoldKey]float64 {
	holdTimes := make(map[snapshot.HoldKey]float64, len(snap.Holder.ActionBuses))
	for _, key := range snap.Holder.ActionBuses {
		holdTimes[key] = 0
	}
	return holdTimes
}

func (a *DoNothing) Reset(episode int) {}
