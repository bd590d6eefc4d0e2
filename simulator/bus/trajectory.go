package bus

import "github.com/transit-control-lab/buscorridor-sim/simulator/snapshot"

// SpotType names the kind of component a bus occupies at a trajectory
// point.
type SpotType string

const (
	SpotLink   SpotType = "link"
	SpotStop   SpotType = "stop"
	SpotHolder SpotType = "holder"
)

// TrajectoryPoint is one sample of the bus's time-space trajectory,
// recorded every tick for offline analysis.
type TrajectoryPoint struct {
	SpotType             SpotType
	SpotID               string
	DistanceFromTerminal float64
	Status               snapshot.BusStatus
}
