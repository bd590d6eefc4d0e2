package simulator

import (
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/holder"
	"github.com/transit-control-lab/buscorridor-sim/simulator/link"
	"github.com/transit-control-lab/buscorridor-sim/simulator/stop"
	"github.com/transit-control-lab/buscorridor-sim/simulator/terminal"
)

// spotType identifies the component a bus is leaving during a transfer.
type spotType string

const (
	spotTerminal spotType = "terminal"
	spotLink     spotType = "link"
	spotStop     spotType = "stop"
	spotHolder   spotType = "holder"
)

// Mediator moves buses between components along their route: terminal to
// first link, link to stop (or back to the ending terminal), stop to
// holder or next link, holder to next link.
type Mediator struct {
	blueprint *setup.Blueprint
	terminals map[string]*terminal.Terminal
	links     map[string]*link.Link
	stops     map[string]stop.Stop
	holder    *holder.Holder
}

func NewMediator(blueprint *setup.Blueprint, terminals map[string]*terminal.Terminal,
	links map[string]*link.Link, stops map[string]stop.Stop, h *holder.Holder) *Mediator {
	return &Mediator{
		blueprint: blueprint,
		terminals: terminals,
		links:     links,
		stops:     stops,
		holder:    h,
	}
}

func (m *Mediator) Transfer(buses []*bus.Bus, spot spotType, spotID string, t int) {
	for _, b := range buses {
		switch spot {
		case spotTerminal:
			m.enterNextLink(b, spotID, t)
			// a terminal departure is always on schedule
			m.holder.Log().RecordWhenBusDeparture(spotID, b.RouteID(), b.BusID(), t, 0, m.holder.HasSchedule())

		case spotLink:
			nodeID, isEndingTerminal := m.blueprint.NextNodeID(b.RouteID(), spotID)
			if isEndingTerminal {
				m.terminals[nodeID].Recycle(b)
				b.Log.RecordWhenFinish(t)
			} else {
				m.stops[nodeID].EnterStop(b, t)
			}

		case spotStop:
			if b.IsHoldStop(spotID) {
				m.holder.AddBus(spotID, b, t)
			} else {
				m.enterNextLink(b, spotID, t)
			}

		case spotHolder:
			m.enterNextLink(b, spotID, t)

		default:
			log.Panicf("bus %s transferred from unknown spot type %s", b, spot)
		}
	}
}

func (m *Mediator) enterNextLink(b *bus.Bus, nodeID string, t int) {
	nextLinkID := m.blueprint.NextLinkID(b.RouteID(), nodeID)
	m.links[nextLinkID].EnterBus(b, t)
}
