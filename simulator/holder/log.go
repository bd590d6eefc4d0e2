package holder

import (
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
)

const virtualBusID = "0"

// Log records the ordered departure events per route per stop, seeded
// with the virtual bus at index 0 so the event count is the epsilon
// shift multiplier. Maps are fully pre-populated from the virtual bus at
// construction; missing keys at record time mean broken topology.
type Log struct {
	hasSchedule bool

	RouteStopDepartureTimeSeq  map[string]map[string][]float64
	RouteStopDepartureBusIDSeq map[string]map[string][]string
	// route -> stop -> bus -> epsilon; nil without a schedule
	RouteStopBusEpsilonDeparture map[string]map[string]map[string]float64
}

func NewLog(vb *virtualbus.VirtualBus, hasSchedule bool) *Log {
	l := &Log{
		hasSchedule:                hasSchedule,
		RouteStopDepartureTimeSeq:  make(map[string]map[string][]float64),
		RouteStopDepartureBusIDSeq: make(map[string]map[string][]string),
	}
	if hasSchedule {
		l.RouteStopBusEpsilonDeparture = make(map[string]map[string]map[string]float64)
	}
	for routeID, stopDepartureTime := range vb.RouteStopDepartureTime() {
		l.RouteStopDepartureTimeSeq[routeID] = make(map[string][]float64)
		l.RouteStopDepartureBusIDSeq[routeID] = make(map[string][]string)
		if hasSchedule {
			l.RouteStopBusEpsilonDeparture[routeID] = make(map[string]map[string]float64)
		}
		for stopID, departureTime := range stopDepartureTime {
			l.RouteStopDepartureTimeSeq[routeID][stopID] = []float64{departureTime}
			l.RouteStopDepartureBusIDSeq[routeID][stopID] = []string{virtualBusID}
			if hasSchedule {
				l.RouteStopBusEpsilonDeparture[routeID][stopID] = map[string]float64{virtualBusID: 0}
			}
		}
	}
	return l
}

// DepartureCount is the number of departures already recorded for the
// route at the stop, including the virtual bus.
func (l *Log) DepartureCount(routeID, stopID string) int {
	return len(l.RouteStopDepartureBusIDSeq[routeID][stopID])
}

func (l *Log) RecordWhenBusDeparture(stopID, routeID, busID string, t int, epsilon float64, scheduled bool) {
	l.RouteStopDepartureTimeSeq[routeID][stopID] = append(l.RouteStopDepartureTimeSeq[routeID][stopID], float64(t))
	l.RouteStopDepartureBusIDSeq[routeID][stopID] = append(l.RouteStopDepartureBusIDSeq[routeID][stopID], busID)
	if scheduled {
		l.RouteStopBusEpsilonDeparture[routeID][stopID][busID] = epsilon
	}
}
