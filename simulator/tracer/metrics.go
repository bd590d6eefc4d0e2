package tracer

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
)

const (
	MetricHeadwayStd           = "headway_std"
	MetricScheduleDeviation    = "schedule_deviation"
	MetricHoldTime             = "hold_time"
	MetricQueueingDelay        = "queueing_delay"
	MetricPaxInVehicleWaitTime = "pax_in_vehicle_wait_time"
	MetricPaxOutVehicleWait    = "pax_out_vehicle_wait_time"
)

// Metrics aggregates per-episode performance numbers over the stops that
// need to be counted for each route. Buses dispatched outside the holding
// window are warm-up / cool-down traffic and are excluded everywhere.
func (tr *Tracer) Metrics(routeStopIDs map[string][]string, totalBuses []*bus.Bus, leftPaxs []*pax.Pax, metricNames []string) map[string]float64 {
	metrics := make(map[string]float64)
	wantHeadwayStd := lo.Contains(metricNames, MetricHeadwayStd)
	wantDeviation := lo.Contains(metricNames, MetricScheduleDeviation)

	countedBuses := make(map[snapshot.BusKey]struct{})
	for _, b := range totalBuses {
		if b.NeedsHolding() {
			countedBuses[snapshot.BusKey{RouteID: b.RouteID(), BusID: b.BusID()}] = struct{}{}
		}
	}

	for routeID, stopIDs := range routeStopIDs {
		var arrivalStds, rtdStds, departureStds []float64
		var arrivalDevs, rtdDevs, departureDevs []float64

		for _, stopID := range stopIDs {
			var arrivalTimes, rtdTimes, departureTimes []float64
			var arrivalEps, rtdEps, departureEps []float64

			for _, b := range totalBuses {
				if !b.NeedsHolding() || b.RouteID() != routeID {
					continue
				}
				if t, ok := b.Log.StopArrivalTime[stopID]; ok {
					arrivalTimes = append(arrivalTimes, float64(t))
					arrivalEps = append(arrivalEps, b.Log.StopEpsilonArrival[stopID])
				}
				if t, ok := b.Log.StopRTDTime[stopID]; ok {
					rtdTimes = append(rtdTimes, float64(t))
					rtdEps = append(rtdEps, b.Log.StopEpsilonRTD[stopID])
				}
				if t, ok := b.Log.StopDepartureTime[stopID]; ok {
					departureTimes = append(departureTimes, float64(t))
					departureEps = append(departureEps, b.Log.StopEpsilonDeparture[stopID])
				}
			}

			if wantHeadwayStd {
				arrivalStds = append(arrivalStds, headwayStd(arrivalTimes))
				rtdStds = append(rtdStds, headwayStd(rtdTimes))
				departureStds = append(departureStds, headwayStd(departureTimes))
			}
			if wantDeviation {
				arrivalDevs = append(arrivalDevs, meanAbs(arrivalEps))
				rtdDevs = append(rtdDevs, meanAbs(rtdEps))
				departureDevs = append(departureDevs, meanAbs(departureEps))
			}
		}

		if wantHeadwayStd {
			metrics[fmt.Sprintf("route-%s's arrival_headway_std", routeID)] = mean(arrivalStds)
			metrics[fmt.Sprintf("route-%s's rtd_headway_std", routeID)] = mean(rtdStds)
			metrics[fmt.Sprintf("route-%s's departure_headway_std", routeID)] = mean(departureStds)
		}
		if wantDeviation {
			metrics[fmt.Sprintf("route-%s's arrival_schedule_deviation", routeID)] = mean(arrivalDevs)
			metrics[fmt.Sprintf("route-%s's rtd_schedule_deviation", routeID)] = mean(rtdDevs)
			metrics[fmt.Sprintf("route-%s's departure_schedule_deviation", routeID)] = mean(departureDevs)
		}
	}

	if lo.Contains(metricNames, MetricHoldTime) {
		routeBusHoldTime := make(map[string]map[string]float64)
		for _, snap := range tr.snapshots {
			for key, holdTime := range snap.ActionRecord {
				if _, ok := countedBuses[snapshot.BusKey{RouteID: key.RouteID, BusID: key.BusID}]; !ok {
					continue
				}
				if _, ok := routeBusHoldTime[key.RouteID]; !ok {
					routeBusHoldTime[key.RouteID] = make(map[string]float64)
				}
				routeBusHoldTime[key.RouteID][key.BusID] += holdTime
			}
		}

		var routeMeans []float64
		for routeID, busHoldTime := range routeBusHoldTime {
			routeMean := mean(lo.Values(busHoldTime))
			metrics[fmt.Sprintf("route-%s's holding time", routeID)] = routeMean
			routeMeans = append(routeMeans, routeMean)
		}
		metrics["total average bus holding time"] = mean(routeMeans)
	}

	if lo.Contains(metricNames, MetricQueueingDelay) {
		var routeMeans []float64
		for routeID, stopIDs := range routeStopIDs {
			var busDelays []float64
			for _, b := range totalBuses {
				if !b.NeedsHolding() || b.RouteID() != routeID {
					continue
				}
				total := 0
				for _, stopID := range stopIDs {
					total += b.Log.StopQueueingDelay[stopID]
				}
				busDelays = append(busDelays, float64(total))
			}
			routeMeans = append(routeMeans, mean(busDelays))
		}
		metrics[MetricQueueingDelay] = mean(routeMeans)
	}

	if lo.Contains(metricNames, MetricPaxInVehicleWaitTime) {
		waits := lo.FilterMap(leftPaxs, func(p *pax.Pax, _ int) (float64, bool) {
			return float64(p.AlightTime - p.BoardTime), p.BoardTime >= 0 && p.AlightTime >= 0
		})
		metrics[MetricPaxInVehicleWaitTime] = mean(waits)
	}

	if lo.Contains(metricNames, MetricPaxOutVehicleWait) {
		waits := lo.FilterMap(leftPaxs, func(p *pax.Pax, _ int) (float64, bool) {
			return float64(p.BoardTime - p.ArrivalTime), p.BoardTime >= 0
		})
		metrics[MetricPaxOutVehicleWait] = mean(waits)
	}

	return metrics
}

// headwayStd is the population standard deviation of successive gaps in
// the sorted event-time sequence.
func headwayStd(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	headways := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		headways = append(headways, sorted[i]-sorted[i-1])
	}
	std, err := stats.StandardDeviation(headways)
	if err != nil {
		log.Panicf("headway std over %d events: %v", len(times), err)
	}
	return std
}

func meanAbs(values []float64) float64 {
	return mean(lo.Map(values, func(v float64, _ int) float64 {
		if v < 0 {
			return -v
		}
		return v
	}))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		log.Panicf("mean over %d values: %v", len(values), err)
	}
	return m
}
