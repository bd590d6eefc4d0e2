// Package bus implements the mobile entity of the simulation: its
// finite-state machine, onboard passenger manifest, fractional
// boarding/alighting progress and per-episode running log. A bus is
// owned by exactly one component (terminal, link, stop, holder) at a
// time; ownership moves only through the mediator.
package bus

import (
	"fmt"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
)

// serviceState tracks one of the two independent door processes.
type serviceState string

const (
	serviceIdle   serviceState = "idle"
	serviceActive serviceState = "active"
)

type Bus struct {
	busID    string
	routeID  string
	capacity int

	// node -> distance from the starting terminal, for trajectory points
	nodeDistance map[string]float64

	status       snapshot.BusStatus
	boardStatus  serviceState
	alightStatus serviceState

	paxs []*pax.Pax

	// fraction of the current boarding action completed; the in-effect
	// rate belongs to the pax at the door
	boardFraction float64
	paxBoardRate  float64

	alightFraction float64
	paxAlightRate  float64

	trajectory map[int]TrajectoryPoint

	// fixed at dispatch: whether the bus counts toward holding control
	needsHolding bool
	holdStops    map[string]struct{}

	Log *RunningLog

	// traversing speed on the current link, meters/sec
	Speed                 float64
	LocRelativeToTerminal float64
}

func New(busID string, route *setup.RouteDetails, nodeDistance map[string]float64,
	vb *virtualbus.VirtualBus, needsHolding bool) *Bus {
	holdStops := make(map[string]struct{}, len(route.HoldStops))
	for _, stopID := range route.HoldStops {
		holdStops[stopID] = struct{}{}
	}
	return &Bus{
		busID:        busID,
		routeID:      route.RouteID,
		capacity:     route.BusCapacity,
		nodeDistance: nodeDistance,
		status:       snapshot.StatusRunningOnLink,
		boardStatus:  serviceIdle,
		alightStatus: serviceIdle,
		trajectory:   make(map[int]TrajectoryPoint),
		needsHolding: needsHolding,
		holdStops:    holdStops,
		Log: NewRunningLog(route.ScheduleHeadway,
			vb.RouteStopArrivalTime()[route.RouteID],
			vb.RouteStopRTDTime()[route.RouteID],
			vb.RouteStopDepartureTime()[route.RouteID]),
	}
}

func (b *Bus) String() string {
	return fmt.Sprintf("Bus %s on route %s with pax_num %d", b.busID, b.routeID, len(b.paxs))
}

func (b *Bus) BusID() string                       { return b.busID }
func (b *Bus) RouteID() string                     { return b.routeID }
func (b *Bus) Status() snapshot.BusStatus          { return b.status }
func (b *Bus) NeedsHolding() bool                  { return b.needsHolding }
func (b *Bus) PaxNum() int                         { return len(b.paxs) }
func (b *Bus) Trajectory() map[int]TrajectoryPoint { return b.trajectory }

// IsBoarding reports whether a boarding action is in progress.
func (b *Bus) IsBoarding() bool { return b.boardStatus == serviceActive }

// IsHoldStop reports whether the bus must enter the holder at stopID.
func (b *Bus) IsHoldStop(stopID string) bool {
	_, ok := b.holdStops[stopID]
	return ok
}

func (b *Bus) SetStatus(status snapshot.BusStatus) {
	b.status = status
}

// Board puts a pax at the door and starts its boarding action. The
// action completes after AccumulateBoardFraction reaches 1.
func (b *Bus) Board(p *pax.Pax, t int) {
	b.boardStatus = serviceActive
	b.paxBoardRate = p.BoardRate
	p.BoardTime = t
	b.paxs = append(b.paxs, p)
}

// AccumulateBoardFraction advances the in-progress boarding action by
// one second at the boarding pax's rate.
func (b *Bus) AccumulateBoardFraction() {
	if b.boardStatus != serviceActive {
		log.Panicf("bus %s/%s is not boarding, cannot accumulate board fraction", b.routeID, b.busID)
	}
	b.boardFraction += b.paxBoardRate
	if b.boardFraction >= 1 {
		b.boardFraction -= 1
		b.boardStatus = serviceIdle
		b.paxBoardRate = 0
	}
}

// Alight advances the alighting process at stopID by one second: either
// progresses the in-flight alighting action, or pulls the next pax
// destined for this stop off the manifest and returns it. Runs
// concurrently with boarding.
func (b *Bus) Alight(stopID string) *pax.Pax {
	switch b.alightStatus {
	case serviceActive:
		b.alightFraction += b.paxAlightRate
		if b.alightFraction >= 1 {
			b.alightFraction -= 1
			b.alightStatus = serviceIdle
			b.paxAlightRate = 0
		}
	case serviceIdle:
		for i, p := range b.paxs {
			if p.Destination == stopID {
				b.paxs = append(b.paxs[:i], b.paxs[i+1:]...)
				b.paxAlightRate = p.AlightRate
				b.alightStatus = serviceActive
				return p
			}
		}
	}
	return nil
}

// AccumulateInVehicleDelay adds one second of riding time to every
// onboard pax.
func (b *Bus) AccumulateInVehicleDelay() {
	for _, p := range b.paxs {
		p.AccumulateInVehicleDelay()
	}
}

// RemainingAlightPaxNum counts onboard paxs destined for stopID.
func (b *Bus) RemainingAlightPaxNum(stopID string) int {
	n := 0
	for _, p := range b.paxs {
		if p.Destination == stopID {
			n++
		}
	}
	return n
}

// UpdateLocation refreshes the bus's corridor offset and records a
// trajectory point for tick t.
func (b *Bus) UpdateLocation(t int, spotType SpotType, spotID, nodeID string, offset float64, status snapshot.BusStatus) {
	d, ok := b.nodeDistance[nodeID]
	if !ok {
		log.Panicf("bus %s/%s: node %s not on route", b.routeID, b.busID, nodeID)
	}
	b.LocRelativeToTerminal = d + offset
	b.trajectory[t] = TrajectoryPoint{
		SpotType:             spotType,
		SpotID:               spotID,
		DistanceFromTerminal: b.LocRelativeToTerminal,
		Status:               status,
	}
}

// Snapshot captures the bus for the decision-maker and the tracer.
func (b *Bus) Snapshot() snapshot.BusSnapshot {
	return snapshot.BusSnapshot{
		BusID:                 b.busID,
		RouteID:               b.routeID,
		NeedsHolding:          b.needsHolding,
		PaxNum:                len(b.paxs),
		LocRelativeToTerminal: b.LocRelativeToTerminal,
		Status:                b.status,
		StopDwellTime:         copyMap(b.Log.StopDwellTime),
		LinkTTDeviation:       copyMap(b.Log.LinkTTDeviation),
		StopEpsilonArrival:    copyMap(b.Log.StopEpsilonArrival),
		StopEpsilonRTD:        copyMap(b.Log.StopEpsilonRTD),
		StopEpsilonDeparture:  copyMap(b.Log.StopEpsilonDeparture),
		VisitedStops:          append([]string(nil), b.Log.VisitedStops...),
	}
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
