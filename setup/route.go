package setup

// RouteDetails holds one route's static description: the ordered visit
// sequence, demand and boarding-rate tables, and dispatch schedule.
type RouteDetails struct {
	RouteID       string
	TerminalID    string
	VisitSeqStops []string
	EndTerminalID string

	// origin stop -> destination stop -> demand rate (pax/sec)
	ODRateTable map[string]map[string]float64

	ScheduleHeadway    float64
	ScheduleHeadwayStd float64

	// stop -> boarding rate used for the virtual-bus schedule (pax/sec)
	BoardingRate map[string]float64

	BusCapacity int

	// stops where buses on this route are handed to the holder
	HoldStops []string
}

// NodeSeq returns terminal, stops and end terminal in visit order.
func (r *RouteDetails) NodeSeq() []string {
	seq := make([]string, 0, len(r.VisitSeqStops)+2)
	seq = append(seq, r.TerminalID)
	seq = append(seq, r.VisitSeqStops...)
	seq = append(seq, r.EndTerminalID)
	return seq
}

// IsHoldStop reports whether stopID is in the route's hold-stop set.
func (r *RouteDetails) IsHoldStop(stopID string) bool {
	for _, s := range r.HoldStops {
		if s == stopID {
			return true
		}
	}
	return false
}

// RouteSchema indexes all routes of a scenario in a stable order.
type RouteSchema struct {
	routeIDs []string
	routes   map[string]*RouteDetails
}

func NewRouteSchema(routes []*RouteDetails) *RouteSchema {
	s := &RouteSchema{routes: make(map[string]*RouteDetails)}
	for _, r := range routes {
		s.routeIDs = append(s.routeIDs, r.RouteID)
		s.routes[r.RouteID] = r
	}
	return s
}

// RouteIDs returns route ids in definition order.
func (s *RouteSchema) RouteIDs() []string {
	return s.routeIDs
}

// Route returns the details of a route; panics on unknown ids because a
// bad route id means broken topology, not a runtime condition.
func (s *RouteSchema) Route(routeID string) *RouteDetails {
	r, ok := s.routes[routeID]
	if !ok {
		log.Panicf("no route %s in route schema", routeID)
	}
	return r
}

// EndTerminal returns the route's ending terminal id.
func (s *RouteSchema) EndTerminal(routeID string) string {
	return s.Route(routeID).EndTerminalID
}

// TerminalRoutes groups routes by their starting terminal. Ending
// terminals that dispatch nothing map to an empty slice.
func (s *RouteSchema) TerminalRoutes() map[string][]*RouteDetails {
	terminalRoutes := make(map[string][]*RouteDetails)
	for _, id := range s.routeIDs {
		r := s.routes[id]
		terminalRoutes[r.TerminalID] = append(terminalRoutes[r.TerminalID], r)
		if _, ok := terminalRoutes[r.EndTerminalID]; !ok {
			terminalRoutes[r.EndTerminalID] = nil
		}
	}
	return terminalRoutes
}
