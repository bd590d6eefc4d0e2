package pax

import (
	"fmt"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

const (
	// sampled board/alight durations are clamped into this range
	minServiceTime = 0.1
	maxServiceTime = 10.0
)

// Generator produces passenger arrivals at stops each tick, either as
// independent Poisson draws per OD pair or as a deterministic
// fractional-rate accumulator per origin. Passengers appear at a stop
// only after the virtual bus's ready-to-depart time there.
type Generator struct {
	blueprint *setup.Blueprint
	engine    *randengine.Engine

	// route -> stop -> time before which no pax arrives
	routeStopStartTime map[string]map[string]float64

	// deterministic arrivals: route -> origin -> accumulated demand
	routeOriginMarker map[string]map[string]float64

	paxCount int
}

func NewGenerator(blueprint *setup.Blueprint, vb *virtualbus.VirtualBus, engine *randengine.Engine) *Generator {
	g := &Generator{
		blueprint:          blueprint,
		engine:             engine,
		routeStopStartTime: vb.RouteStopPaxArrivalStartTime(),
		routeOriginMarker:  make(map[string]map[string]float64),
	}
	for _, routeID := range blueprint.RouteSchema.RouteIDs() {
		g.routeOriginMarker[routeID] = make(map[string]float64)
	}
	return g
}

// Generate returns the passengers arriving at each stop during tick t.
func (g *Generator) Generate(t int) map[string][]*Pax {
	stopPaxs := make(map[string][]*Pax)
	pop := g.blueprint.Pax
	for _, routeID := range g.blueprint.RouteSchema.RouteIDs() {
		route := g.blueprint.RouteSchema.Route(routeID)
		for _, origin := range route.VisitSeqStops {
			destRates, ok := route.ODRateTable[origin]
			if !ok {
				continue
			}
			if float64(t) <= g.routeStopStartTime[routeID][origin] {
				continue
			}

			switch pop.ArrivalType {
			case "deterministic":
				if dest, ok := g.deterministicArrival(routeID, origin, destRates); ok {
					p := g.newPax(origin, dest, routeID, t)
					stopPaxs[origin] = append(stopPaxs[origin], p)
				}
			case "poisson":
				for dest, rate := range destRates {
					for i := 0; i < g.engine.Poisson(rate); i++ {
						p := g.newPax(origin, dest, routeID, t)
						stopPaxs[origin] = append(stopPaxs[origin], p)
					}
				}
			default:
				log.Panicf("unknown pax arrival type %s", pop.ArrivalType)
			}
		}
	}
	return stopPaxs
}

// deterministicArrival accumulates the origin's total demand rate and
// emits exactly one pax when the accumulator reaches 1, with the
// destination sampled proportionally to the OD rates.
func (g *Generator) deterministicArrival(routeID, origin string, destRates map[string]float64) (string, bool) {
	total := 0.0
	for _, r := range destRates {
		total += r
	}
	marker := g.routeOriginMarker[routeID][origin] + total
	if marker < 1 {
		g.routeOriginMarker[routeID][origin] = marker
		return "", false
	}
	g.routeOriginMarker[routeID][origin] = marker - 1

	route := g.blueprint.RouteSchema.Route(routeID)
	dests := make([]string, 0, len(destRates))
	rates := make([]float64, 0, len(destRates))
	// stable visit order so a given seed always yields the same trip
	for _, stopID := range route.VisitSeqStops {
		if rate, ok := destRates[stopID]; ok {
			dests = append(dests, stopID)
			rates = append(rates, rate)
		}
	}
	return dests[g.engine.DiscreteDistribution(rates)], true
}

func (g *Generator) newPax(origin, dest, routeID string, t int) *Pax {
	p := &Pax{
		ID:          fmt.Sprintf("%d", g.paxCount),
		Origin:      origin,
		Destination: dest,
		Routes:      []string{routeID},
		ArrivalTime: t,
		BoardRate:   g.boardRate(),
		AlightRate:  g.alightRate(),
		BoardTime:   -1,
		AlightTime:  -1,
	}
	g.paxCount++
	return p
}

func (g *Generator) boardRate() float64 {
	pop := g.blueprint.Pax
	if pop.BoardTimeType == "deterministic" {
		return 1 / pop.BoardTimeMean
	}
	return 1 / g.engine.NormalClamped(pop.BoardTimeMean, pop.BoardTimeStd, minServiceTime, maxServiceTime)
}

func (g *Generator) alightRate() float64 {
	pop := g.blueprint.Pax
	if pop.AlightTimeType == "" {
		return 0
	}
	if pop.AlightTimeType == "deterministic" {
		return 1 / pop.AlightTimeMean
	}
	return 1 / g.engine.NormalClamped(pop.AlightTimeMean, pop.AlightTimeStd, minServiceTime, maxServiceTime)
}
