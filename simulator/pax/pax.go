// Package pax models passengers: their identity, trip, service rates
// and accrued waiting delays, plus the stochastic generator that feeds
// them into stops.
package pax

// Pax is one passenger. It is owned by exactly one stop queue or bus
// manifest at any time.
type Pax struct {
	ID          string
	Origin      string
	Destination string
	// routes that can carry the pax from origin to destination
	Routes      []string
	ArrivalTime int

	BoardRate  float64 // fraction of a boarding completed per second
	AlightRate float64 // 0 when alighting is not simulated

	BoardTime  int // -1 until boarded
	AlightTime int // -1 until alighted

	OutVehicleDelay int
	InVehicleDelay  int
}

// AccumulateOutVehicleDelay adds one second of waiting at the stop.
func (p *Pax) AccumulateOutVehicleDelay() {
	p.OutVehicleDelay++
}

// AccumulateInVehicleDelay adds one second of riding time.
func (p *Pax) AccumulateInVehicleDelay() {
	p.InVehicleDelay++
}
