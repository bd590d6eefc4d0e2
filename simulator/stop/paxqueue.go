package stop

import (
	"sort"
	"strings"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/bus"
	"github.com/transit-control-lab/buscorridor-sim/simulator/pax"
	"github.com/transit-control-lab/buscorridor-sim/utils/container"
)

// PaxQueue holds the passengers waiting at a stop, partitioned by the
// exact set of routes that can serve them. A group keyed by a single
// route is "exclusive"; buses serve exclusive groups before common-line
// groups. Groups are served in first-seen order.
type PaxQueue struct {
	stopID     string
	truncation setup.Truncation

	groups *container.OrderedMap[string, *routeGroup]
}

type routeGroup struct {
	routes []string
	paxs   []*pax.Pax
}

func NewPaxQueue(stopID string, truncation setup.Truncation) *PaxQueue {
	return &PaxQueue{
		stopID:     stopID,
		truncation: truncation,
		groups:     container.NewOrderedMap[string, *routeGroup](),
	}
}

func groupKey(routes []string) string {
	sorted := append([]string(nil), routes...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// AddPax queues a pax into the group matching its eligible route set.
func (q *PaxQueue) AddPax(p *pax.Pax) {
	key := groupKey(p.Routes)
	g, ok := q.groups.Get(key)
	if !ok {
		g = &routeGroup{routes: append([]string(nil), p.Routes...)}
		q.groups.Set(key, g)
	}
	g.paxs = append(g.paxs, p)
}

// Board advances the bus's boarding process by one second: it either
// progresses the in-flight boarding action, or starts boarding the head
// of the first servable group (exclusive groups first), subject to the
// stop's boarding-truncation rule.
func (q *PaxQueue) Board(b *bus.Bus, t int) {
	if b.IsBoarding() {
		b.AccumulateBoardFraction()
		return
	}
	for _, g := range q.servedGroups(b.RouteID()) {
		eligible := q.eligiblePaxs(b, g.paxs)
		if len(eligible) == 0 {
			continue
		}
		head := eligible[0]
		b.Board(head, t)
		g.remove(head)
		b.AccumulateBoardFraction()
		return
	}
}

// RemainingPaxNum counts the queued passengers the bus is still obliged
// to serve under the truncation rule.
func (q *PaxQueue) RemainingPaxNum(b *bus.Bus) int {
	n := 0
	for _, g := range q.servedGroups(b.RouteID()) {
		n += len(q.eligiblePaxs(b, g.paxs))
	}
	return n
}

// AccumulateOutVehicleDelay adds one second of waiting to every queued
// pax.
func (q *PaxQueue) AccumulateOutVehicleDelay() {
	for _, g := range q.groups.Values() {
		for _, p := range g.paxs {
			p.AccumulateOutVehicleDelay()
		}
	}
}

// TotalPaxNum is the number of queued passengers across all groups.
func (q *PaxQueue) TotalPaxNum() int {
	n := 0
	for _, g := range q.groups.Values() {
		n += len(g.paxs)
	}
	return n
}

// servedGroups returns the groups containing the route, exclusive
// (single-route) groups first.
func (q *PaxQueue) servedGroups(routeID string) []*routeGroup {
	var exclusive, common []*routeGroup
	for _, g := range q.groups.Values() {
		if !g.contains(routeID) {
			continue
		}
		if len(g.routes) == 1 {
			exclusive = append(exclusive, g)
		} else {
			common = append(common, g)
		}
	}
	return append(exclusive, common...)
}

// eligiblePaxs applies the boarding-truncation rule: under "arrival"
// only passengers who arrived strictly before the bus did are served;
// under "rtd" the whole queue is eligible.
func (q *PaxQueue) eligiblePaxs(b *bus.Bus, paxs []*pax.Pax) []*pax.Pax {
	if q.truncation != setup.TruncationArrival {
		return paxs
	}
	busArrival, ok := b.Log.StopArrivalTime[q.stopID]
	if !ok {
		log.Panicf("bus %s/%s has no arrival record at stop %s", b.RouteID(), b.BusID(), q.stopID)
	}
	var eligible []*pax.Pax
	for _, p := range paxs {
		if p.ArrivalTime < busArrival {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

func (g *routeGroup) contains(routeID string) bool {
	for _, r := range g.routes {
		if r == routeID {
			return true
		}
	}
	return false
}

func (g *routeGroup) remove(target *pax.Pax) {
	for i, p := range g.paxs {
		if p == target {
			g.paxs = append(g.paxs[:i], g.paxs[i+1:]...)
			return
		}
	}
}
