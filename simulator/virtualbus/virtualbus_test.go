package virtualbus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transit-control-lab/buscorridor-sim/setup"
	"github.com/transit-control-lab/buscorridor-sim/simulator/virtualbus"
	"github.com/transit-control-lab/buscorridor-sim/utils/config"
)

func corridorBlueprint() *setup.Blueprint {
	return setup.NewHomogeneousBlueprint(config.ScenarioConfig{
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
		Pax: config.PaxConfig{
			ArrivalType:   "deterministic",
			BoardTimeMean: 2, // boarding rate 0.5 pax/sec
			BoardTimeType: "deterministic",
		},
	})
}

func rates(bp *setup.Blueprint) map[string]map[string]float64 {
	return map[string]map[string]float64{"R1": bp.RouteStopArrivalRate("R1")}
}

func TestPerfectSchedule(t *testing.T) {
	bp := corridorBlueprint()
	vb := virtualbus.New(bp)
	vb.InitializeWithPerfectSchedule(rates(bp), 10)

	arrival := vb.RouteStopArrivalTime()["R1"]
	rtd := vb.RouteStopRTDTime()["R1"]
	departure := vb.RouteStopDepartureTime()["R1"]

	assert.Equal(t, 0.0, arrival["0"])
	assert.Equal(t, 0.0, departure["0"])

	// one headway of demand boards at 0.5 pax/sec: 0.01*300/0.5 = 6s dwell
	assert.InDelta(t, 60.0, arrival["1"], 1e-9)
	assert.InDelta(t, 66.0, rtd["1"], 1e-9)
	assert.InDelta(t, 76.0, departure["1"], 1e-9)

	assert.InDelta(t, 136.0, arrival["2"], 1e-9)
	assert.InDelta(t, 142.0, rtd["2"], 1e-9)
	assert.InDelta(t, 152.0, departure["2"], 1e-9)

	// the last stop has no demand: arrival and RTD coincide
	assert.InDelta(t, 212.0, arrival["3"], 1e-9)
	assert.InDelta(t, 212.0, rtd["3"], 1e-9)
	assert.InDelta(t, 222.0, departure["3"], 1e-9)
}

func TestZeroSlack(t *testing.T) {
	bp := corridorBlueprint()
	vb := virtualbus.New(bp)
	vb.InitializeWithPerfectSchedule(rates(bp), 0)

	rtd := vb.RouteStopRTDTime()["R1"]
	departure := vb.RouteStopDepartureTime()["R1"]
	for _, stopID := range []string{"1", "2", "3"} {
		assert.Equal(t, rtd[stopID], departure[stopID])
	}
}

func TestUpdateTrajectory(t *testing.T) {
	bp := corridorBlueprint()
	vb := virtualbus.New(bp)
	vb.InitializeWithPerfectSchedule(rates(bp), 10)

	vb.UpdateTrajectory(map[string]map[string]float64{
		"R1": {"1": 20, "2": 0, "3": 0},
	})
	arrival := vb.RouteStopArrivalTime()["R1"]
	departure := vb.RouteStopDepartureTime()["R1"]
	assert.InDelta(t, 86.0, departure["1"], 1e-9)
	assert.InDelta(t, 146.0, arrival["2"], 1e-9)
}

func TestInitializeByData(t *testing.T) {
	bp := corridorBlueprint()
	vb := virtualbus.New(bp)
	observed := map[string]map[string]float64{
		"R1": {"0": 0, "1": 70, "2": 150, "3": 230},
	}
	vb.InitializeByData(observed)

	assert.Equal(t, 70.0, vb.RouteStopArrivalTime()["R1"]["1"])
	assert.Equal(t, 70.0, vb.RouteStopRTDTime()["R1"]["1"])
	assert.Equal(t, 70.0, vb.RouteStopDepartureTime()["R1"]["1"])

	// seeded times are copies, not aliases
	observed["R1"]["1"] = 999
	assert.Equal(t, 70.0, vb.RouteStopRTDTime()["R1"]["1"])
}
