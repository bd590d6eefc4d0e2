// Package virtualbus builds the synthetic reference trajectory against
// which every real bus's schedule deviation is measured. The virtual bus
// departs the terminal at time 0, follows mean link travel times and
// mean boarding durations, and is held for a configured slack (or a
// convergent average hold time) at every stop; it occupies event index 0
// at every node with zero deviation by construction.
package virtualbus

import (
	"github.com/transit-control-lab/buscorridor-sim/setup"
)

type VirtualBus struct {
	blueprint *setup.Blueprint

	// route -> node -> reference time (seconds from episode start)
	routeStopArrivalTime   map[string]map[string]float64
	routeStopRTDTime       map[string]map[string]float64
	routeStopDepartureTime map[string]map[string]float64

	routeStopArrivalRate map[string]map[string]float64
}

func New(blueprint *setup.Blueprint) *VirtualBus {
	return &VirtualBus{
		blueprint:              blueprint,
		routeStopArrivalTime:   make(map[string]map[string]float64),
		routeStopRTDTime:       make(map[string]map[string]float64),
		routeStopDepartureTime: make(map[string]map[string]float64),
	}
}

// RouteStopArrivalTime returns route -> node -> reference arrival time.
func (v *VirtualBus) RouteStopArrivalTime() map[string]map[string]float64 {
	return v.routeStopArrivalTime
}

// RouteStopRTDTime returns route -> node -> reference ready-to-depart
// time.
func (v *VirtualBus) RouteStopRTDTime() map[string]map[string]float64 {
	return v.routeStopRTDTime
}

// RouteStopDepartureTime returns route -> node -> reference departure
// time.
func (v *VirtualBus) RouteStopDepartureTime() map[string]map[string]float64 {
	return v.routeStopDepartureTime
}

// RouteStopPaxArrivalStartTime is the time passengers start arriving at
// each stop: demand before the virtual bus has served a stop belongs to
// the (unsimulated) previous cycle.
func (v *VirtualBus) RouteStopPaxArrivalStartTime() map[string]map[string]float64 {
	return v.routeStopRTDTime
}

// InitializeWithPerfectSchedule lays out the reference trajectory with a
// fixed holding slack at every stop. Alighting is not part of the
// reference: boarding dominates it.
func (v *VirtualBus) InitializeWithPerfectSchedule(routeStopArrivalRate map[string]map[string]float64, slack float64) {
	v.routeStopArrivalRate = routeStopArrivalRate
	schema := v.blueprint.RouteSchema
	routeStopHoldTime := make(map[string]map[string]float64)
	for _, routeID := range schema.RouteIDs() {
		stopHoldTime := make(map[string]float64)
		for _, stopID := range schema.Route(routeID).VisitSeqStops {
			stopHoldTime[stopID] = slack
		}
		routeStopHoldTime[routeID] = stopHoldTime
	}
	v.UpdateTrajectory(routeStopHoldTime)
}

// InitializeByData seeds the reference trajectory from observed
// ready-to-depart times. Historical data has no holding, so arrival and
// departure coincide with RTD.
func (v *VirtualBus) InitializeByData(routeStopRTDTime map[string]map[string]float64) {
	v.routeStopArrivalTime = copyTimes(routeStopRTDTime)
	v.routeStopRTDTime = copyTimes(routeStopRTDTime)
	v.routeStopDepartureTime = copyTimes(routeStopRTDTime)
}

// UpdateTrajectory recomputes the reference trajectory for the given
// per-stop average hold times. Per stop, in chronological order: mean
// link travel to the stop, boarding of one headway's worth of demand at
// the stop's boarding rate, then the average hold.
func (v *VirtualBus) UpdateTrajectory(routeStopHoldTime map[string]map[string]float64) {
	schema := v.blueprint.RouteSchema
	for _, routeID := range schema.RouteIDs() {
		route := schema.Route(routeID)
		headway := route.ScheduleHeadway

		arrival := make(map[string]float64)
		rtd := make(map[string]float64)
		departure := make(map[string]float64)

		t := 0.0
		arrival[route.TerminalID] = t
		rtd[route.TerminalID] = t
		departure[route.TerminalID] = t

		nodes := append([]string{route.TerminalID}, route.VisitSeqStops...)
		for i := 0; i+1 < len(nodes); i++ {
			headNode, tailNode := nodes[i], nodes[i+1]

			linkID := v.blueprint.NextLinkID(routeID, headNode)
			t += v.blueprint.Network.LinkDistribution(linkID).TTMean
			arrival[tailNode] = t

			// boarding one headway of accumulated demand
			arrivalRate := v.routeStopArrivalRate[routeID][tailNode]
			boardRate := route.BoardingRate[tailNode]
			t += arrivalRate / boardRate * headway
			rtd[tailNode] = t

			t += routeStopHoldTime[routeID][tailNode]
			departure[tailNode] = t
		}

		v.routeStopArrivalTime[routeID] = arrival
		v.routeStopRTDTime[routeID] = rtd
		v.routeStopDepartureTime[routeID] = departure
	}
}

func copyTimes(src map[string]map[string]float64) map[string]map[string]float64 {
	dst := make(map[string]map[string]float64, len(src))
	for routeID, stopTimes := range src {
		inner := make(map[string]float64, len(stopTimes))
		for stopID, t := range stopTimes {
			inner[stopID] = t
		}
		dst[routeID] = inner
	}
	return dst
}
