// Package agent defines the hold-time decision-maker contract and the
// built-in policies. An agent sees only the per-tick snapshot; the hold
// times it returns are applied by the simulator on the next tick.
package agent

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

var log = logrus.WithField("module", "agent")

type Agent interface {
	Name() string
	// CalculateHoldTime decides a hold time for every undecided
	// registration listed in the snapshot's holder state.
	CalculateHoldTime(snap *snapshot.Snapshot) map[snapshot.HoldKey]float64
	// Reset prepares the agent for the next episode.
	Reset(episode int)
}

// New selects the policy named in the configuration.
func New(cfg config.AgentConfig, blueprint *setup.Blueprint) (Agent, error) {
	switch cfg.Name {
	case "do_nothing":
		return NewDoNothing(), nil
	case "fixed_hold":
		return NewFixedHold(cfg.HoldTime), nil
	case "forward_headway":
		return NewForwardHeadway(blueprint, cfg.Alpha, cfg.Slack), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", cfg.Name)
	}
}

// forwardBackwardSpacing returns the distance to the nearest bus ahead
// of and behind busID. A missing neighbor reports +Inf.
func forwardBackwardSpacing(snap *snapshot.Snapshot, busID string) (forward, backward float64) {
	var currLoc float64
	found := false
	for key, bs := range snap.Buses {
		if key.BusID == busID {
			currLoc = bs.LocRelativeToTerminal
			found = true
			break
		}
	}
	if !found {
		log.Panicf("bus %s not in snapshot at t=%d", busID, snap.T)
	}

	forward, backward = math.Inf(1), math.Inf(1)
	for key, bs := range snap.Buses {
		if key.BusID == busID {
			continue
		}
		diff := bs.LocRelativeToTerminal - currLoc
		if diff > 0 && diff < forward {
			forward = diff
		} else if diff < 0 && -diff < backward {
			backward = -diff
		}
	}
	return forward, backward
}
