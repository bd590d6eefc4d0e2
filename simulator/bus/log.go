package bus

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "bus")

// RunningLog accumulates everything observable about one bus over an
// episode: event times per stop, schedule deviations against the
// virtual-bus reference, dwell and queueing delays, and the visit
// history. Epsilon values are only produced when the caller passes the
// per-node event index (the count of same-route events already logged
// at the node; the virtual bus holds index 0).
type RunningLog struct {
	// reference trajectory of the virtual bus on this route
	virtualStopArrivalTime   map[string]float64
	virtualStopRTDTime       map[string]float64
	virtualStopDepartureTime map[string]float64

	ScheduleHeadway float64

	DispatchTime int // -1 until dispatched
	EndTime      int // -1 until finished

	// link -> sampled travel time minus the link's mean
	LinkTTDeviation map[string]float64
	// stop -> seconds spent dwelling in a berth
	StopDwellTime map[string]int
	// stop -> seconds spent in the entry queue
	StopQueueingDelay map[string]int
	VisitedStops      []string

	StopEpsilonArrival   map[string]float64
	StopEpsilonRTD       map[string]float64
	StopEpsilonDeparture map[string]float64

	StopArrivalTime   map[string]int
	StopRTDTime       map[string]int
	StopDepartureTime map[string]int
}

func NewRunningLog(scheduleHeadway float64, virtualArrival, virtualRTD, virtualDeparture map[string]float64) *RunningLog {
	return &RunningLog{
		virtualStopArrivalTime:   virtualArrival,
		virtualStopRTDTime:       virtualRTD,
		virtualStopDepartureTime: virtualDeparture,
		ScheduleHeadway:          scheduleHeadway,
		DispatchTime:             -1,
		EndTime:                  -1,
		LinkTTDeviation:          make(map[string]float64),
		StopDwellTime:            make(map[string]int),
		StopQueueingDelay:        make(map[string]int),
		StopEpsilonArrival:       make(map[string]float64),
		StopEpsilonRTD:           make(map[string]float64),
		StopEpsilonDeparture:     make(map[string]float64),
		StopArrivalTime:          make(map[string]int),
		StopRTDTime:              make(map[string]int),
		StopDepartureTime:        make(map[string]int),
	}
}

func (l *RunningLog) RecordWhenDispatch(t int) {
	l.DispatchTime = t
}

func (l *RunningLog) RecordWhenEnterLink(linkID string, ttDeviation float64) {
	l.LinkTTDeviation[linkID] = ttDeviation
}

// RecordWhenArrival logs the arrival time at a stop. With a schedule,
// priorEvents is the number of same-route arrivals already logged at the
// stop and the returned epsilon is t minus (reference + headway *
// priorEvents).
func (l *RunningLog) RecordWhenArrival(stopID string, t int, priorEvents int, hasSchedule bool) (float64, bool) {
	l.StopArrivalTime[stopID] = t
	if !hasSchedule {
		return 0, false
	}
	epsilon := l.epsilon(l.virtualStopArrivalTime, stopID, t, priorEvents)
	l.StopEpsilonArrival[stopID] = epsilon
	return epsilon, true
}

func (l *RunningLog) RecordWhenQueue(stopID string) {
	l.StopQueueingDelay[stopID]++
}

func (l *RunningLog) RecordWhenDwell(stopID string) {
	l.StopDwellTime[stopID]++
}

// RecordWhenRTD logs the ready-to-depart time at a stop and appends the
// stop to the visit history.
func (l *RunningLog) RecordWhenRTD(stopID string, t int, priorEvents int, hasSchedule bool) (float64, bool) {
	l.StopRTDTime[stopID] = t
	l.VisitedStops = append(l.VisitedStops, stopID)
	if !hasSchedule {
		return 0, false
	}
	epsilon := l.epsilon(l.virtualStopRTDTime, stopID, t, priorEvents)
	l.StopEpsilonRTD[stopID] = epsilon
	return epsilon, true
}

// RecordWhenDeparture logs the post-holding departure time at a stop.
func (l *RunningLog) RecordWhenDeparture(stopID string, t int, priorEvents int, hasSchedule bool) (float64, bool) {
	l.StopDepartureTime[stopID] = t
	if !hasSchedule {
		return 0, false
	}
	epsilon := l.epsilon(l.virtualStopDepartureTime, stopID, t, priorEvents)
	l.StopEpsilonDeparture[stopID] = epsilon
	return epsilon, true
}

func (l *RunningLog) RecordWhenFinish(t int) {
	l.EndTime = t
}

func (l *RunningLog) epsilon(reference map[string]float64, stopID string, t int, priorEvents int) float64 {
	ref, ok := reference[stopID]
	if !ok {
		log.Panicf("no virtual bus reference time at node %s", stopID)
	}
	scheduled := ref + l.ScheduleHeadway*float64(priorEvents)
	return float64(t) - scheduled
}
