package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chamberball/internal/config"
	"chamberball/internal/simulation"
	"chamberball/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" CHAMBERBALL SIMULATOR")
	log.Println("================================")

	appConfig := config.Load()
	simCfg := appConfig.Simulation
	limits := appConfig.Limits

	log.Printf("config: step=%dns gravity=%.3f maxSpeed=%.2f chambersPerRow=%d",
		simCfg.StepLenNanos, simCfg.Gravity, simCfg.MaxSpeed, simCfg.ChambersPerRow)
	log.Printf("limits: maxChambers=%d maxBalls=%d", limits.MaxChambers, limits.MaxBalls)

	seed := int64(1)
	if s := os.Getenv("SIMULATION_SEED"); s != "" {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
			seed = parsed
		}
	}

	numBalls := 20
	if n := os.Getenv("NUM_BALLS"); n != "" {
		if parsed, err := strconv.Atoi(n); err == nil {
			numBalls = parsed
		}
	}

	sim := simulation.NewSimulation(seed, numBalls, simCfg, limits)

	demoChambers := simCfg.ChambersPerRow * 2
	for i := 0; i < demoChambers; i++ {
		if err := sim.AddChamber(simulation.NoopChamber{}); err != nil {
			log.Printf("could not register demo chamber %d: %v", i, err)
			break
		}
	}
	log.Printf("registered %d chambers, layout holds %d", demoChambers, sim.NumChambers())

	eventLogPath := appConfig.Telemetry.EventLogPath
	if eventLogPath != "" {
		log.Printf("event log: %s", eventLogPath)
	}

	telemetryCfg := telemetry.Config{ListenAddr: "127.0.0.1:" + strconv.Itoa(appConfig.Telemetry.Port)}
	telemetry.Serve(telemetryCfg, simulationStateAdapter{sim})

	stop := make(chan struct{})
	go telemetry.PollEventLogStats(sim.EventLog().Stats, time.Second, stop)

	sim.Start(eventLogPath)
	defer func() {
		close(stop)
		sim.Stop()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Println("shutting down")
}

// simulationStateAdapter adapts *simulation.Simulation to
// telemetry.StateProvider, converting between the two packages' parallel
// ball-view types so telemetry never imports simulation (simulation already
// imports telemetry for its metrics).
type simulationStateAdapter struct {
	sim *simulation.Simulation
}

func (a simulationStateAdapter) NumChambers() int     { return a.sim.NumChambers() }
func (a simulationStateAdapter) NumStepsTaken() uint64 { return a.sim.NumStepsTaken() }
func (a simulationStateAdapter) Seed() int64           { return a.sim.Seed() }
func (a simulationStateAdapter) Balls() []telemetry.BallView {
	src := a.sim.Balls()
	out := make([]telemetry.BallView, len(src))
	for i, b := range src {
		out[i] = telemetry.BallView{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY, R: b.R, Owner: b.Owner}
	}
	return out
}
