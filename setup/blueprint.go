package setup

import "math"

// NodeType tags the result of a previous-node lookup.
type NodeType string

const (
	NodeTypeTerminal NodeType = "terminal"
	NodeTypeStop     NodeType = "stop"
)

// Blueprint bundles the static network and the route schema and
// precomputes the per-route lookups the simulator needs every tick:
// next link for a node, next node for a link, node distance from the
// terminal, and total pax arrival rate per stop. It is the read-only
// topology provider for terminals, links, stops, the mediator and
// virtual-bus construction.
type Blueprint struct {
	Network     *Network
	RouteSchema *RouteSchema
	Pax         PaxOperation

	// route -> node -> outgoing link on the route
	routeNodeToLink map[string]map[string]string
	// route -> link -> node the link ends at on the route
	routeLinkToNode map[string]map[string]string
	// route -> node -> distance from the starting terminal (meters)
	routeNodeDistance map[string]map[string]float64
	// route -> stop -> summed OD demand rate out of the stop (pax/sec)
	routeStopArrivalRate map[string]map[string]float64
}

// PaxOperation describes the passenger arrival and service processes;
// it lives on the blueprint because the generator and the virtual bus
// both consume it.
type PaxOperation struct {
	ArrivalType string // "deterministic" or "poisson"

	BoardTimeMean float64
	BoardTimeStd  float64
	BoardTimeType string // "deterministic" or "normal"

	// zero AlightTimeType means passengers alight instantaneously and
	// alighting is not simulated (board-only stops)
	AlightTimeMean float64
	AlightTimeStd  float64
	AlightTimeType string
}

func NewBlueprint(network *Network, schema *RouteSchema, pax PaxOperation) *Blueprint {
	b := &Blueprint{
		Network:     network,
		RouteSchema: schema,
		Pax:         pax,
	}
	b.routeNodeToLink, b.routeLinkToNode = b.generateNodeAndLinkMap()
	b.routeNodeDistance = b.generateNodeDistance()
	b.routeStopArrivalRate = b.calculateTotalArrivalRate()
	return b
}

// NextLinkID returns the link a bus on routeID enters when leaving
// currNodeID.
func (b *Blueprint) NextLinkID(routeID, currNodeID string) string {
	linkID, ok := b.routeNodeToLink[routeID][currNodeID]
	if !ok {
		log.Panicf("route %s has no link out of node %s", routeID, currNodeID)
	}
	return linkID
}

// NextNodeID returns the node at the end of currLinkID on routeID and
// whether that node is the route's ending terminal.
func (b *Blueprint) NextNodeID(routeID, currLinkID string) (string, bool) {
	nodeID, ok := b.routeLinkToNode[routeID][currLinkID]
	if !ok {
		log.Panicf("route %s has no node after link %s", routeID, currLinkID)
	}
	return nodeID, nodeID == b.RouteSchema.EndTerminal(routeID)
}

// PreviousNode returns the node visited right before currNodeID on the
// route. currNodeID must be a stop; the answer for the first stop is the
// starting terminal.
func (b *Blueprint) PreviousNode(routeID, currNodeID string) (NodeType, string) {
	route := b.RouteSchema.Route(routeID)
	for i, stopID := range route.VisitSeqStops {
		if stopID != currNodeID {
			continue
		}
		if i == 0 {
			return NodeTypeTerminal, route.TerminalID
		}
		return NodeTypeStop, route.VisitSeqStops[i-1]
	}
	log.Panicf("node %s is not a stop of route %s", currNodeID, routeID)
	return "", ""
}

// RouteNodeDistance returns node -> distance from terminal for a route.
func (b *Blueprint) RouteNodeDistance(routeID string) map[string]float64 {
	return b.routeNodeDistance[routeID]
}

// RouteStopArrivalRate returns stop -> total pax arrival rate for a
// route (OD table summed by origin; the last stop generates no demand).
func (b *Blueprint) RouteStopArrivalRate(routeID string) map[string]float64 {
	return b.routeStopArrivalRate[routeID]
}

func (b *Blueprint) generateNodeAndLinkMap() (map[string]map[string]string, map[string]map[string]string) {
	routeNodeToLink := make(map[string]map[string]string)
	routeLinkToNode := make(map[string]map[string]string)
	for _, routeID := range b.RouteSchema.RouteIDs() {
		route := b.RouteSchema.Route(routeID)
		nodeToLink := make(map[string]string)
		linkToNode := make(map[string]string)
		seq := route.NodeSeq()
		for i := 0; i+1 < len(seq); i++ {
			linkID := b.Network.LinkIDByNodes(seq[i], seq[i+1])
			nodeToLink[seq[i]] = linkID
			linkToNode[linkID] = seq[i+1]
		}
		routeNodeToLink[routeID] = nodeToLink
		routeLinkToNode[routeID] = linkToNode
	}
	return routeNodeToLink, routeLinkToNode
}

func (b *Blueprint) generateNodeDistance() map[string]map[string]float64 {
	routeNodeDistance := make(map[string]map[string]float64)
	for _, routeID := range b.RouteSchema.RouteIDs() {
		route := b.RouteSchema.Route(routeID)
		nodeDistance := make(map[string]float64)
		cum := 0.0
		seq := route.NodeSeq()
		for i := 0; i+1 < len(seq); i++ {
			nodeDistance[seq[i]] = cum
			cum += b.nodeDistance(seq[i], seq[i+1])
		}
		nodeDistance[route.EndTerminalID] = cum
		routeNodeDistance[routeID] = nodeDistance
	}
	return routeNodeDistance
}

// nodeDistance approximates inter-node travel distance with the
// manhattan distance between node coordinates.
func (b *Blueprint) nodeDistance(node1, node2 string) float64 {
	x1, y1 := b.Network.NodeXY(node1)
	x2, y2 := b.Network.NodeXY(node2)
	return math.Abs(x1-x2) + math.Abs(y1-y2)
}

func (b *Blueprint) calculateTotalArrivalRate() map[string]map[string]float64 {
	routeRate := make(map[string]map[string]float64)
	for _, routeID := range b.RouteSchema.RouteIDs() {
		route := b.RouteSchema.Route(routeID)
		rate := make(map[string]float64)
		for origin, destRates := range route.ODRateTable {
			total := 0.0
			for _, r := range destRates {
				total += r
			}
			rate[origin] = total
		}
		// no one boards at the last stop
		rate[route.VisitSeqStops[len(route.VisitSeqStops)-1]] = 0.0
		routeRate[routeID] = rate
	}
	return routeRate
}
