package stop

import (
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
)

// Log records the ordered arrival and ready-to-depart events at one
// stop, per route, together with each bus's schedule deviation. Every
// sequence is seeded at construction with the virtual bus (bus id "0",
// deviation 0), so the count of logged events is exactly the shift
// multiplier for the next arrival's epsilon and "previous bus" queries
// are always answerable.
type Log struct {
	hasSchedule bool

	RouteArrivalTimeSeq  map[string][]float64
	RouteArrivalBusIDSeq map[string][]string
	RouteRTDTimeSeq      map[string][]float64
	RouteRTDBusIDSeq     map[string][]string

	// route -> bus -> epsilon; nil without a schedule
	RouteBusEpsilonArrival map[string]map[string]float64
	RouteBusEpsilonRTD     map[string]map[string]float64
}

const virtualBusID = "0"

func NewLog(stopID string, vb *virtualbus.VirtualBus, hasSchedule bool) *Log {
	l := &Log{
		hasSchedule:          hasSchedule,
		RouteArrivalTimeSeq:  make(map[string][]float64),
		RouteArrivalBusIDSeq: make(map[string][]string),
		RouteRTDTimeSeq:      make(map[string][]float64),
		RouteRTDBusIDSeq:     make(map[string][]string),
	}
	if hasSchedule {
		l.RouteBusEpsilonArrival = make(map[string]map[string]float64)
		l.RouteBusEpsilonRTD = make(map[string]map[string]float64)
	}

	for routeID, stopArrivalTime := range vb.RouteStopArrivalTime() {
		arrivalTime, ok := stopArrivalTime[stopID]
		if !ok {
			continue
		}
		l.RouteArrivalTimeSeq[routeID] = []float64{arrivalTime}
		l.RouteArrivalBusIDSeq[routeID] = []string{virtualBusID}
		if hasSchedule {
			l.RouteBusEpsilonArrival[routeID] = map[string]float64{virtualBusID: 0}
		}
	}
	for routeID, stopRTDTime := range vb.RouteStopRTDTime() {
		rtdTime, ok := stopRTDTime[stopID]
		if !ok {
			continue
		}
		l.RouteRTDTimeSeq[routeID] = []float64{rtdTime}
		l.RouteRTDBusIDSeq[routeID] = []string{virtualBusID}
		if hasSchedule {
			l.RouteBusEpsilonRTD[routeID] = map[string]float64{virtualBusID: 0}
		}
	}
	return l
}

// ArrivalCount is the number of same-route arrivals already recorded,
// including the virtual bus.
func (l *Log) ArrivalCount(routeID string) int {
	return len(l.RouteArrivalTimeSeq[routeID])
}

// RTDCount is the number of same-route RTD events already recorded,
// including the virtual bus.
func (l *Log) RTDCount(routeID string) int {
	return len(l.RouteRTDBusIDSeq[routeID])
}

func (l *Log) RecordWhenBusArrival(routeID, busID string, t int, epsilon float64, scheduled bool) {
	l.RouteArrivalTimeSeq[routeID] = append(l.RouteArrivalTimeSeq[routeID], float64(t))
	l.RouteArrivalBusIDSeq[routeID] = append(l.RouteArrivalBusIDSeq[routeID], busID)
	if scheduled {
		l.RouteBusEpsilonArrival[routeID][busID] = epsilon
	}
}

func (l *Log) RecordWhenBusRTD(routeID, busID string, t int, epsilon float64, scheduled bool) {
	l.RouteRTDTimeSeq[routeID] = append(l.RouteRTDTimeSeq[routeID], float64(t))
	l.RouteRTDBusIDSeq[routeID] = append(l.RouteRTDBusIDSeq[routeID], busID)
	if scheduled {
		l.RouteBusEpsilonRTD[routeID][busID] = epsilon
	}
}
