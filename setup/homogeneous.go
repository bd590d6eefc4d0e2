package setup

import (
	"fmt"

	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

// NewHomogeneousBlueprint builds the single-route corridor scenario: a
// starting terminal, cfg.StopNum identical stops joined by identical
// links, and an ending terminal. Node ids are "0" (terminal),
// "1".."StopNum" (stops) and "StopNum+1" (ending terminal); link ids
// count up from "link-0" in visit order.
func NewHomogeneousBlueprint(cfg config.ScenarioConfig) *Blueprint {
	network := NewNetwork()

	startTerminal := "0"
	endTerminal := fmt.Sprintf("%d", cfg.StopNum+1)
	visitSeqStops := make([]string, 0, cfg.StopNum)
	for i := 1; i <= cfg.StopNum; i++ {
		visitSeqStops = append(visitSeqStops, fmt.Sprintf("%d", i))
	}

	stopOp := StopOperation{
		IsAlight:        cfg.IsAlight,
		QueueRule:       QueueRule(cfg.QueueRule),
		BoardTruncation: Truncation(cfg.BoardTruncation),
	}
	x := 0.0
	network.AddTerminal(startTerminal, TerminalGeometry{X: x})
	for _, stopID := range visitSeqStops {
		x += cfg.LinkLength
		network.AddStop(stopID, StopGeometry{X: x, BerthNum: cfg.BerthNum}, stopOp)
	}
	x += cfg.LinkLength
	network.AddTerminal(endTerminal, TerminalGeometry{X: x})

	dist := LinkDistribution{TTMean: cfg.TTMean, TTCV: cfg.TTCV, TTType: "normal"}
	nodeSeq := append(append([]string{startTerminal}, visitSeqStops...), endTerminal)
	for i := 0; i+1 < len(nodeSeq); i++ {
		linkID := fmt.Sprintf("link-%d", i)
		network.AddLink(linkID, LinkGeometry{
			HeadNode: nodeSeq[i],
			TailNode: nodeSeq[i+1],
			Length:   cfg.LinkLength,
		}, dist)
	}

	// all demand goes to the last stop, as in the reference corridor:
	// boarding dominates and alighting happens at the line's end
	lastStop := visitSeqStops[len(visitSeqStops)-1]
	odRateTable := make(map[string]map[string]float64)
	for i, origin := range visitSeqStops {
		destRates := make(map[string]float64)
		for _, dest := range visitSeqStops[i+1:] {
			if dest == lastStop {
				destRates[dest] = cfg.ODRate
			} else {
				destRates[dest] = 0.0
			}
		}
		if len(destRates) > 0 {
			odRateTable[origin] = destRates
		}
	}

	boardingRate := make(map[string]float64)
	for _, stopID := range visitSeqStops {
		boardingRate[stopID] = 1.0 / cfg.Pax.BoardTimeMean
	}

	holdStops := cfg.HoldStops
	if len(holdStops) == 0 {
		holdStops = visitSeqStops
	}

	route := &RouteDetails{
		RouteID:            cfg.RouteID,
		TerminalID:         startTerminal,
		VisitSeqStops:      visitSeqStops,
		EndTerminalID:      endTerminal,
		ODRateTable:        odRateTable,
		ScheduleHeadway:    cfg.Headway,
		ScheduleHeadwayStd: cfg.HeadwayStd,
		BoardingRate:       boardingRate,
		BusCapacity:        int(1e8),
		HoldStops:          holdStops,
	}

	pax := PaxOperation{
		ArrivalType:    cfg.Pax.ArrivalType,
		BoardTimeMean:  cfg.Pax.BoardTimeMean,
		BoardTimeStd:   cfg.Pax.BoardTimeStd,
		BoardTimeType:  cfg.Pax.BoardTimeType,
		AlightTimeMean: cfg.Pax.AlightTimeMean,
		AlightTimeStd:  cfg.Pax.AlightTimeStd,
		AlightTimeType: cfg.Pax.AlightTimeType,
	}

	return NewBlueprint(network, NewRouteSchema([]*RouteDetails{route}), pax)
}
