package simulator

import (
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/link"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/simulator/stop"
	"github.com/transit-control-lab/buscorridor-sim/simulator/terminal"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

// Builder constructs the simulation components from a blueprint so the
// simulator itself only orchestrates them.
type Builder struct {
	blueprint *setup.Blueprint
	engine    *randengine.Engine
}

func NewBuilder(blueprint *setup.Blueprint, engine *randengine.Engine) *Builder {
	return &Builder{blueprint: blueprint, engine: engine}
}

// CreateVirtualBus derives the reference trajectory from the blueprint's
// demand table assuming a perfectly even headway, with slack seconds of
// scheduled hold added at every stop.
func (bd *Builder) CreateVirtualBus(slack float64) *virtualbus.VirtualBus {
	rates := make(map[string]map[string]float64)
	for _, routeID := range bd.blueprint.RouteSchema.RouteIDs() {
		rates[routeID] = bd.blueprint.RouteStopArrivalRate(routeID)
	}
	vb := virtualbus.New(bd.blueprint)
	vb.InitializeWithPerfectSchedule(rates, slack)
	return vb
}

func (bd *Builder) CreateTerminals(vb *virtualbus.VirtualBus, holdPeriod terminal.HoldPeriod) map[string]*terminal.Terminal {
	terminals := make(map[string]*terminal.Terminal)
	for terminalID, routes := range bd.blueprint.RouteSchema.TerminalRoutes() {
		terminals[terminalID] = terminal.New(terminalID, routes, bd.blueprint, vb, holdPeriod, bd.engine)
	}
	return terminals
}

func (bd *Builder) CreateLinks() map[string]*link.Link {
	links := make(map[string]*link.Link)
	for _, linkID := range bd.blueprint.Network.LinkIDs() {
		links[linkID] = link.New(linkID,
			bd.blueprint.Network.LinkGeometry(linkID),
			bd.blueprint.Network.LinkDistribution(linkID),
			bd.engine)
	}
	return links
}

func (bd *Builder) CreateStops(vb *virtualbus.VirtualBus, hasSchedule bool) map[string]stop.Stop {
	stops := make(map[string]stop.Stop)
	for _, stopID := range bd.blueprint.Network.StopIDs() {
		stops[stopID] = stop.New(stopID,
			bd.blueprint.Network.StopGeometry(stopID),
			bd.blueprint.Network.StopOperation(stopID),
			vb, hasSchedule)
	}
	return stops
}

func (bd *Builder) CreatePaxGenerator(vb *virtualbus.VirtualBus) *pax.Generator {
	return pax.NewGenerator(bd.blueprint, vb, bd.engine)
}
