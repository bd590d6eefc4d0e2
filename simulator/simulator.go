// Package simulator wires the corridor components together and advances
// the whole system one second at a time.
package simulator

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/holder"
	"github.com/transit-control-lab/buscorridor-sim/simulator/link"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/simulator/stop"
	"github.com/transit-control-lab/buscorridor-sim/simulator/terminal"
	"github.com/transit-control-lab/buscorridor-sim/simulator/tracer"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

var log = logrus.WithField("module", "simulator")

// Simulator owns one episode of corridor operation. Construct a fresh
// one per episode; all component state starts empty.
type Simulator struct {
	blueprint   *setup.Blueprint
	virtualBus  *virtualbus.VirtualBus
	generator   *pax.Generator
	terminals   map[string]*terminal.Terminal
	links       map[string]*link.Link
	stops       map[string]stop.Stop
	holder      *holder.Holder
	mediator    *Mediator
	tracer      *tracer.Tracer
	metricNames []string

	// deterministic iteration order over the component maps
	terminalIDs []string
	linkIDs     []string
	stopIDs     []string

	totalBuses []*bus.Bus
	leftPaxs   []*pax.Pax
}

// New builds all components for one episode. A non-nil vb supplies an
// externally calibrated reference trajectory; otherwise the perfect
// schedule is derived from the blueprint with the configured slack.
func New(blueprint *setup.Blueprint, cfg *config.Config, vb *virtualbus.VirtualBus, engine *randengine.Engine) *Simulator {
	builder := NewBuilder(blueprint, engine)
	if vb == nil {
		vb = builder.CreateVirtualBus(cfg.Scenario.Slack)
	}

	holdPeriod := terminal.HoldPeriod{Start: cfg.Control.HoldStart, End: cfg.Control.HoldEnd}
	hasSchedule := cfg.Control.HasSchedule

	s := &Simulator{
		blueprint:   blueprint,
		virtualBus:  vb,
		generator:   builder.CreatePaxGenerator(vb),
		terminals:   builder.CreateTerminals(vb, holdPeriod),
		links:       builder.CreateLinks(),
		stops:       builder.CreateStops(vb, hasSchedule),
		holder:      holder.New(vb, hasSchedule),
		tracer:      tracer.New(),
		metricNames: cfg.Control.Metrics,
	}
	s.mediator = NewMediator(blueprint, s.terminals, s.links, s.stops, s.holder)

	s.terminalIDs = sortedKeys(s.terminals)
	s.linkIDs = sortedKeys(s.links)
	s.stopIDs = sortedKeys(s.stops)
	return s
}

func (s *Simulator) VirtualBus() *virtualbus.VirtualBus { return s.virtualBus }
func (s *Simulator) TotalBuses() []*bus.Bus             { return s.totalBuses }
func (s *Simulator) LeftPaxs() []*pax.Pax               { return s.leftPaxs }

// Step applies the hold decisions made at tick t-1 and advances the
// system to the end of tick t, returning the snapshot the next decision
// is made from.
func (s *Simulator) Step(t int, holdAction map[snapshot.HoldKey]float64) *snapshot.Snapshot {
	// dispatch buses from terminals onto their first links
	for _, terminalID := range s.terminalIDs {
		dispatched := s.terminals[terminalID].Dispatch(t)
		s.mediator.Transfer(dispatched, spotTerminal, terminalID, t)
		s.totalBuses = append(s.totalBuses, dispatched...)
	}

	// passengers arrive at stops
	for stopID, paxs := range s.generator.Generate(t) {
		s.stops[stopID].PaxArrive(paxs)
	}

	// buses move along links
	for _, linkID := range s.linkIDs {
		leaving := s.links[linkID].Forward(t)
		s.mediator.Transfer(leaving, spotLink, linkID, t)
	}

	// berth entry, boarding, alighting
	for _, stopID := range s.stopIDs {
		leavingBuses, leavingPaxs := s.stops[stopID].Operation(t)
		s.mediator.Transfer(leavingBuses, spotStop, stopID, t)
		s.leftPaxs = append(s.leftPaxs, leavingPaxs...)
	}

	// apply the previous tick's decisions, then burn down active holds
	if err := s.holder.SetHoldAction(holdAction); err != nil {
		log.Panicf("applying hold actions at t=%d: %v", t, err)
	}
	released := s.holder.Operation(t)
	for _, stopID := range sortedKeys(released) {
		s.mediator.Transfer(released[stopID], spotHolder, stopID, t)
	}

	// out-vehicle delay is accrued inside stop operation
	for _, b := range s.totalBuses {
		if b.Status() != snapshot.StatusFinished {
			b.AccumulateInVehicleDelay()
		}
	}

	return s.TakeSnapshot(t)
}

// TakeSnapshot captures the whole system state at tick t.
func (s *Simulator) TakeSnapshot(t int) *snapshot.Snapshot {
	return s.tracer.TakeSnapshot(t, s.links, s.stops, s.holder)
}

// Metrics aggregates the episode's performance numbers over all stops of
// every route, plus each route's dispatch-time -> trip-time map for the
// buses that completed their trip.
func (s *Simulator) Metrics() (map[string]float64, map[string]map[int]int) {
	routeStopIDs := make(map[string][]string)
	for _, routeID := range s.blueprint.RouteSchema.RouteIDs() {
		routeStopIDs[routeID] = s.blueprint.RouteSchema.Route(routeID).VisitSeqStops
	}
	metrics := s.tracer.Metrics(routeStopIDs, s.totalBuses, s.leftPaxs, s.metricNames)

	routeTripTimes := make(map[string]map[int]int)
	for _, routeID := range s.blueprint.RouteSchema.RouteIDs() {
		tripTimes := make(map[int]int)
		for _, b := range s.totalBuses {
			if b.RouteID() != routeID || b.Log.EndTime < 0 {
				continue
			}
			tripTimes[b.Log.DispatchTime] = b.Log.EndTime - b.Log.DispatchTime
		}
		routeTripTimes[routeID] = tripTimes
	}
	return metrics, routeTripTimes
}

// StopAverageHoldTime reports the episode's mean applied hold per route
// per stop, the input for recalibrating the reference trajectory.
func (s *Simulator) StopAverageHoldTime() map[string]map[string]float64 {
	return s.tracer.StopAverageHoldTime()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
