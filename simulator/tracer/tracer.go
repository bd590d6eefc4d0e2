// Package tracer captures the whole-system snapshot every tick and
// aggregates the accumulated snapshots into end-of-episode metrics.
package tracer

import (
	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/simulator/holder"
	"github.com/transit-control-lab/buscorridor-sim/simulator/link"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/stop"
)

var log = logrus.WithField("module", "tracer")

type Tracer struct {
	snapshots []*snapshot.Snapshot
}

func New() *Tracer {
	return &Tracer{}
}

// TakeSnapshot captures every bus (wherever it is owned), every stop and
// the holder at tick t. The snapshot is retained for end-of-episode
// aggregation and returned for the decision-maker.
func (tr *Tracer) TakeSnapshot(t int, links map[string]*link.Link, stops map[string]stop.Stop, h *holder.Holder) *snapshot.Snapshot {
	busSnapshots := make(map[snapshot.BusKey]snapshot.BusSnapshot)
	stopSnapshots := make(map[string]snapshot.StopSnapshot)

	for _, l := range links {
		for _, b := range l.Buses() {
			busSnapshots[snapshot.BusKey{RouteID: b.RouteID(), BusID: b.BusID()}] = b.Snapshot()
		}
	}
	for stopID, s := range stops {
		stopSnapshots[stopID] = s.Snapshot()
		for _, b := range s.Buses() {
			busSnapshots[snapshot.BusKey{RouteID: b.RouteID(), BusID: b.BusID()}] = b.Snapshot()
		}
	}
	for _, b := range h.Buses() {
		busSnapshots[snapshot.BusKey{RouteID: b.RouteID(), BusID: b.BusID()}] = b.Snapshot()
	}

	snap := &snapshot.Snapshot{
		T:            t,
		Buses:        busSnapshots,
		Stops:        stopSnapshots,
		Holder:       h.Snapshot(),
		ActionRecord: make(map[snapshot.HoldKey]float64),
	}
	tr.snapshots = append(tr.snapshots, snap)
	return snap
}

// StopAverageHoldTime averages the applied hold actions per route per
// stop across the episode.
func (tr *Tracer) StopAverageHoldTime() map[string]map[string]float64 {
	routeStopHoldTimes := make(map[string]map[string][]float64)
	for _, snap := range tr.snapshots {
		for key, holdTime := range snap.ActionRecord {
			if _, ok := routeStopHoldTimes[key.RouteID]; !ok {
				routeStopHoldTimes[key.RouteID] = make(map[string][]float64)
			}
			routeStopHoldTimes[key.RouteID][key.StopID] = append(routeStopHoldTimes[key.RouteID][key.StopID], holdTime)
		}
	}

	routeStopHoldTime := make(map[string]map[string]float64)
	for routeID, stopHoldTimes := range routeStopHoldTimes {
		routeStopHoldTime[routeID] = make(map[string]float64)
		for stopID, holdTimes := range stopHoldTimes {
			routeStopHoldTime[routeID][stopID] = mean(holdTimes)
		}
	}
	return routeStopHoldTime
}
