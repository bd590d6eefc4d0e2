package setup

import (
	"sort"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "setup")

// QueueRule is the berth admission/egress discipline of a stop.
type QueueRule string

const (
	// QueueRuleFO admits into the most-downstream free berth behind any
	// occupant and lets every berth release independently.
	QueueRuleFO QueueRule = "FO"
	// QueueRuleFIFO admits into the most-upstream free berth and releases
	// a berth only when all downstream berths are empty.
	QueueRuleFIFO QueueRule = "FIFO"
)

// Truncation is the boarding cutoff rule of a stop.
type Truncation string

const (
	// TruncationArrival only serves passengers who arrived strictly
	// before the bus's arrival at the stop.
	TruncationArrival Truncation = "arrival"
	// TruncationRTD serves whoever is queued at call time.
	TruncationRTD Truncation = "rtd"
)

type TerminalGeometry struct {
	X, Y float64
}

type StopGeometry struct {
	X, Y     float64
	BerthNum int
}

type StopOperation struct {
	IsAlight        bool
	QueueRule       QueueRule
	BoardTruncation Truncation
}

type LinkGeometry struct {
	HeadNode string
	TailNode string
	Length   float64
}

// LinkDistribution is the stochastic travel-time law of a link.
type LinkDistribution struct {
	TTMean float64
	TTCV   float64 // std = TTMean * TTCV
	TTType string  // "normal"
}

// Network is the static corridor graph: terminals, stops and the links
// joining them. It is immutable after construction and shared read-only
// by all simulation components.
type Network struct {
	terminalGeometries map[string]TerminalGeometry
	stopGeometries     map[string]StopGeometry
	stopOperations     map[string]StopOperation
	linkGeometries     map[string]LinkGeometry
	linkDistributions  map[string]LinkDistribution

	// (head node, tail node) -> link id
	linkByNodes map[[2]string]string
}

func NewNetwork() *Network {
	return &Network{
		terminalGeometries: make(map[string]TerminalGeometry),
		stopGeometries:     make(map[string]StopGeometry),
		stopOperations:     make(map[string]StopOperation),
		linkGeometries:     make(map[string]LinkGeometry),
		linkDistributions:  make(map[string]LinkDistribution),
		linkByNodes:        make(map[[2]string]string),
	}
}

func (n *Network) AddTerminal(id string, g TerminalGeometry) {
	n.terminalGeometries[id] = g
}

func (n *Network) AddStop(id string, g StopGeometry, op StopOperation) {
	n.stopGeometries[id] = g
	n.stopOperations[id] = op
}

func (n *Network) AddLink(id string, g LinkGeometry, d LinkDistribution) {
	n.linkGeometries[id] = g
	n.linkDistributions[id] = d
	n.linkByNodes[[2]string{g.HeadNode, g.TailNode}] = id
}

func (n *Network) TerminalIDs() []string {
	ids := make([]string, 0, len(n.terminalGeometries))
	for id := range n.terminalGeometries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StopIDs returns the ids of all stops, sorted for deterministic
// component construction.
func (n *Network) StopIDs() []string {
	ids := make([]string, 0, len(n.stopGeometries))
	for id := range n.stopGeometries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LinkIDs returns the ids of all links, sorted.
func (n *Network) LinkIDs() []string {
	ids := make([]string, 0, len(n.linkGeometries))
	for id := range n.linkGeometries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (n *Network) StopGeometry(stopID string) StopGeometry {
	g, ok := n.stopGeometries[stopID]
	if !ok {
		log.Panicf("no stop %s in network", stopID)
	}
	return g
}

func (n *Network) StopOperation(stopID string) StopOperation {
	op, ok := n.stopOperations[stopID]
	if !ok {
		log.Panicf("no stop %s in network", stopID)
	}
	return op
}

func (n *Network) LinkGeometry(linkID string) LinkGeometry {
	g, ok := n.linkGeometries[linkID]
	if !ok {
		log.Panicf("no link %s in network", linkID)
	}
	return g
}

func (n *Network) LinkDistribution(linkID string) LinkDistribution {
	d, ok := n.linkDistributions[linkID]
	if !ok {
		log.Panicf("no link %s in network", linkID)
	}
	return d
}

// LinkIDByNodes resolves the link joining two adjacent nodes.
func (n *Network) LinkIDByNodes(headNode, tailNode string) string {
	id, ok := n.linkByNodes[[2]string{headNode, tailNode}]
	if !ok {
		log.Panicf("no link between %s and %s in network", headNode, tailNode)
	}
	return id
}

// NodeXY returns the coordinates of a terminal or stop node.
func (n *Network) NodeXY(nodeID string) (float64, float64) {
	if g, ok := n.terminalGeometries[nodeID]; ok {
		return g.X, g.Y
	}
	if g, ok := n.stopGeometries[nodeID]; ok {
		return g.X, g.Y
	}
	log.Panicf("no node %s in network", nodeID)
	return 0, 0
}
