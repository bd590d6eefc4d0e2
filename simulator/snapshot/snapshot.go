// Package snapshot defines the immutable per-tick state exposed to the
// external hold-time decision-maker, plus the cross-referencing queries
// some holding policies need (previous-bus deviations, last RTD time).
// A snapshot is never mutated after capture except for the single late
// write-back of the decision-maker's chosen hold times.
package snapshot

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "snapshot")

// HoldKey identifies one bus-at-stop holding registration.
type HoldKey struct {
	StopID  string
	RouteID string
	BusID   string
}

// BusKey identifies a bus across the episode.
type BusKey struct {
	RouteID string
	BusID   string
}

// BusStatus is the bus finite-state-machine state.
type BusStatus string

const (
	StatusRunningOnLink  BusStatus = "running_on_link"
	StatusQueueingAtStop BusStatus = "queueing_at_stop"
	StatusDwellingAtStop BusStatus = "dwelling_at_stop"
	StatusHolding        BusStatus = "holding"
	StatusFinished       BusStatus = "finished"
)

// BusSnapshot captures one bus. PaxNum, location and status are
// instantaneous; the per-stop maps carry the bus's full history so far.
type BusSnapshot struct {
	BusID                 string
	RouteID               string
	NeedsHolding          bool
	PaxNum                int
	LocRelativeToTerminal float64
	Status                BusStatus
	StopDwellTime         map[string]int
	LinkTTDeviation       map[string]float64
	StopEpsilonArrival    map[string]float64
	StopEpsilonRTD        map[string]float64
	StopEpsilonDeparture  map[string]float64
	VisitedStops          []string
}

// StopSnapshot captures one stop's waiting-pax count and its full
// arrival/RTD event history (the virtual bus occupies index 0 of every
// sequence).
type StopSnapshot struct {
	StopID               string
	PaxNum               int
	RouteArrivalTimeSeq  map[string][]float64
	RouteArrivalBusIDSeq map[string][]string
	RouteRTDTimeSeq      map[string][]float64
	RouteRTDBusIDSeq     map[string][]string
	// nil unless the scenario carries a schedule
	RouteBusEpsilonArrival map[string]map[string]float64
	RouteBusEpsilonRTD     map[string]map[string]float64
}

// HolderSnapshot captures the holder: which registrations still need a
// hold decision this tick, and the departure event history per route and
// stop.
type HolderSnapshot struct {
	// registrations with an undecided hold time, in registration order
	ActionBuses []HoldKey

	RouteStopDepartureTimeSeq  map[string]map[string][]float64
	RouteStopDepartureBusIDSeq map[string]map[string][]string
	// nil unless the scenario carries a schedule
	RouteStopBusEpsilonDeparture map[string]map[string]map[string]float64
}

// Snapshot is the whole-system state at tick T.
type Snapshot struct {
	T      int
	Buses  map[BusKey]BusSnapshot
	Stops  map[string]StopSnapshot
	Holder HolderSnapshot

	// the decision-maker's hold actions for tick T, written back once
	// after the decision is made
	ActionRecord map[HoldKey]float64
}

// RecordHoldingTime writes the decision-maker's chosen hold times back
// into the snapshot so the tracer can aggregate applied holds later.
func (s *Snapshot) RecordHoldingTime(holdTimes map[HoldKey]float64) {
	for key, holdTime := range holdTimes {
		s.ActionRecord[key] = holdTime
	}
}

// HolderEpsilon returns the departure schedule deviation of a bus at the
// holder of nodeID.
func (s *Snapshot) HolderEpsilon(nodeID, routeID, busID string) float64 {
	bus, ok := s.Buses[BusKey{RouteID: routeID, BusID: busID}]
	if !ok {
		log.Panicf("no bus %s/%s in snapshot", routeID, busID)
	}
	return bus.StopEpsilonDeparture[nodeID]
}

// StopEpsilon returns the arrival and RTD deviations of the bus
// preceding busID at stopID on routeID. Valid for every real bus: the
// virtual bus guarantees at least one prior entry in both sequences.
func (s *Snapshot) StopEpsilon(routeID, stopID, busID string) (epsilonArrival, epsilonRTD float64) {
	stop, ok := s.Stops[stopID]
	if !ok {
		log.Panicf("no stop %s in snapshot", stopID)
	}

	arrivalSeq := stop.RouteArrivalBusIDSeq[routeID]
	lastArrivalBusID := previousBusID(arrivalSeq, busID, routeID, stopID)

	rtdSeq := stop.RouteRTDBusIDSeq[routeID]
	lastRTDBusID := previousBusID(rtdSeq, busID, routeID, stopID)

	return stop.RouteBusEpsilonArrival[routeID][lastArrivalBusID],
		stop.RouteBusEpsilonRTD[routeID][lastRTDBusID]
}

// BusEpsilon returns the arrival and RTD deviations of busID at
// queryStopID.
func (s *Snapshot) BusEpsilon(routeID, busID, queryStopID string) (epsilonArrival, epsilonRTD float64) {
	bus, ok := s.Buses[BusKey{RouteID: routeID, BusID: busID}]
	if !ok {
		log.Panicf("no bus %s/%s in snapshot", routeID, busID)
	}
	return bus.StopEpsilonArrival[queryStopID], bus.StopEpsilonRTD[queryStopID]
}

// LastRTDTime returns the RTD time of the second-to-last bus in the
// stop's RTD sequence.
func (s *Snapshot) LastRTDTime(routeID, stopID string) float64 {
	rtdTimes := s.Stops[stopID].RouteRTDTimeSeq[routeID]
	if len(rtdTimes) < 2 {
		log.Panicf("stop %s route %s has no previous rtd event", stopID, routeID)
	}
	return rtdTimes[len(rtdTimes)-2]
}

func previousBusID(seq []string, busID, routeID, stopID string) string {
	for i, id := range seq {
		if id == busID {
			if i == 0 {
				log.Panicf("bus %s/%s has no predecessor at stop %s", routeID, busID, stopID)
			}
			return seq[i-1]
		}
	}
	log.Panicf("bus %s/%s not recorded at stop %s", routeID, busID, stopID)
	return ""
}
