// Package link moves buses between two topological nodes with a
// stochastic travel time: the time is sampled once on entry and fixes
// the bus's traversal speed for the whole link.
package link

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/utils/randengine"
)

var log = logrus.WithField("module", "link")

// sampled travel times below this floor are clamped, not rejected
const minTravelTime = 10.0

type Link struct {
	linkID   string
	headNode string
	tailNode string
	length   float64

	dist   setup.LinkDistribution
	engine *randengine.Engine

	buses []*bus.Bus
	// (route, bus) -> offset from the head node, meters
	busLinkLoc map[snapshot.BusKey]float64
}

func New(linkID string, geometry setup.LinkGeometry, dist setup.LinkDistribution, engine *randengine.Engine) *Link {
	return &Link{
		linkID:     linkID,
		headNode:   geometry.HeadNode,
		tailNode:   geometry.TailNode,
		length:     geometry.Length,
		dist:       dist,
		engine:     engine,
		busLinkLoc: make(map[snapshot.BusKey]float64),
	}
}

func (l *Link) String() string {
	return fmt.Sprintf("Link %s from %s to %s", l.linkID, l.headNode, l.tailNode)
}

func (l *Link) ID() string { return l.linkID }

// Buses returns the buses currently in transit, in entry order.
func (l *Link) Buses() []*bus.Bus { return l.buses }

// EnterBus accepts a bus onto the link, samples its travel time and
// fixes its speed.
func (l *Link) EnterBus(b *bus.Bus, t int) {
	sampledTT := l.sampleTravelTime()
	b.Log.RecordWhenEnterLink(l.linkID, sampledTT-l.dist.TTMean)

	b.Speed = l.length / sampledTT
	l.buses = append(l.buses, b)
	l.busLinkLoc[snapshot.BusKey{RouteID: b.RouteID(), BusID: b.BusID()}] = 0.0

	b.UpdateLocation(t, bus.SpotLink, l.linkID, l.headNode, 0, snapshot.StatusRunningOnLink)
	b.SetStatus(snapshot.StatusRunningOnLink)
}

// Forward advances every bus by one second of travel and returns the
// buses that reached the tail node this tick.
func (l *Link) Forward(t int) []*bus.Bus {
	var finished []*bus.Bus
	remaining := l.buses[:0]
	for _, b := range l.buses {
		key := snapshot.BusKey{RouteID: b.RouteID(), BusID: b.BusID()}
		offset := l.busLinkLoc[key] + b.Speed
		l.busLinkLoc[key] = offset

		b.UpdateLocation(t, bus.SpotLink, l.linkID, l.headNode, offset, snapshot.StatusRunningOnLink)
		b.SetStatus(snapshot.StatusRunningOnLink)

		if offset >= l.length {
			delete(l.busLinkLoc, key)
			finished = append(finished, b)
		} else {
			remaining = append(remaining, b)
		}
	}
	l.buses = remaining
	return finished
}

func (l *Link) sampleTravelTime() float64 {
	switch l.dist.TTType {
	case "normal":
		tt := l.engine.Normal(l.dist.TTMean, l.dist.TTMean*l.dist.TTCV)
		if tt < minTravelTime {
			tt = minTravelTime
		}
		return tt
	default:
		log.Panicf("link %s: unknown travel time type %s", l.linkID, l.dist.TTType)
		return 0
	}
}
