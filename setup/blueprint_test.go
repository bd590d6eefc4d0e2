package setup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

func corridorScenario() config.ScenarioConfig {
	return config.ScenarioConfig{
		Name:            "homogeneous",
		RouteID:         "R1",
		StopNum:         3,
		BerthNum:        1,
		LinkLength:      600,
		TTMean:          60,
		TTCV:            0,
		Headway:         300,
		ODRate:          0.01,
		QueueRule:       "FO",
		BoardTruncation: "rtd",
		Slack:           10,
		Pax: config.PaxConfig{
			ArrivalType:   "deterministic",
			BoardTimeMean: 2,
			BoardTimeType: "deterministic",
		},
	}
}

func TestHomogeneousTopology(t *testing.T) {
	bp := setup.NewHomogeneousBlueprint(corridorScenario())

	assert.Equal(t, []string{"0", "4"}, bp.Network.TerminalIDs())
	assert.Equal(t, []string{"1", "2", "3"}, bp.Network.StopIDs())
	assert.Equal(t, []string{"link-0", "link-1", "link-2", "link-3"}, bp.Network.LinkIDs())

	route := bp.RouteSchema.Route("R1")
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, route.NodeSeq())
	assert.Equal(t, "4", bp.RouteSchema.EndTerminal("R1"))

	assert.Equal(t, 600.0, bp.Network.LinkGeometry("link-0").Length)
	assert.Equal(t, 60.0, bp.Network.LinkDistribution("link-2").TTMean)
	assert.Equal(t, "link-1", bp.Network.LinkIDByNodes("1", "2"))
}

func TestNextLinkAndNode(t *testing.T) {
	bp := setup.NewHomogeneousBlueprint(corridorScenario())

	assert.Equal(t, "link-0", bp.NextLinkID("R1", "0"))
	assert.Equal(t, "link-3", bp.NextLinkID("R1", "3"))

	node, ending := bp.NextNodeID("R1", "link-0")
	assert.Equal(t, "1", node)
	assert.False(t, ending)

	node, ending = bp.NextNodeID("R1", "link-3")
	assert.Equal(t, "4", node)
	assert.True(t, ending)
}

func TestPreviousNode(t *testing.T) {
	bp := setup.NewHomogeneousBlueprint(corridorScenario())

	nodeType, nodeID := bp.PreviousNode("R1", "1")
	assert.Equal(t, setup.NodeTypeTerminal, nodeType)
	assert.Equal(t, "0", nodeID)

	nodeType, nodeID = bp.PreviousNode("R1", "3")
	assert.Equal(t, setup.NodeTypeStop, nodeType)
	assert.Equal(t, "2", nodeID)
}

func TestRouteNodeDistance(t *testing.T) {
	bp := setup.NewHomogeneousBlueprint(corridorScenario())

	dist := bp.RouteNodeDistance("R1")
	assert.Equal(t, 0.0, dist["0"])
	assert.Equal(t, 600.0, dist["1"])
	assert.Equal(t, 1200.0, dist["2"])
	assert.Equal(t, 1800.0, dist["3"])
	assert.Equal(t, 2400.0, dist["4"])
}

func TestRouteStopArrivalRate(t *testing.T) {
	bp := setup.NewHomogeneousBlueprint(corridorScenario())

	// all demand targets the last stop, which itself generates none
	rate := bp.RouteStopArrivalRate("R1")
	assert.InDelta(t, 0.01, rate["1"], 1e-12)
	assert.InDelta(t, 0.01, rate["2"], 1e-12)
	assert.Equal(t, 0.0, rate["3"])
}

func TestTerminalRoutes(t *testing.T) {
	bp := setup.NewHomogeneousBlueprint(corridorScenario())

	tr := bp.RouteSchema.TerminalRoutes()
	assert.Len(t, tr["0"], 1)
	assert.Equal(t, "R1", tr["0"][0].RouteID)
	assert.Empty(t, tr["4"]) // ending terminal dispatches nothing

	assert.True(t, tr["0"][0].IsHoldStop("2"))
}
