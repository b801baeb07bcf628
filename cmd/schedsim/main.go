// schedsim drives the simulation engine from the command line: load a
// workload, run one policy (or compare all eight), print the Gantt chart
// and metrics. It is a demo/test harness in the teacher's cmd/main.go
// idiom, not the excluded HTTP façade or terminal front-end: no server,
// no session, no interactivity — one invocation, one printed result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"schedsim/internal/comparator"
	"schedsim/internal/config"
	"schedsim/internal/engine"
	"schedsim/internal/render"
)

var (
	configPath  *string
	policyName  *string
	quantum     *int
	ticks       *int
	compareFlag *bool
)

// TODO: per 12-factor rules these could also come from env; flags are
// sufficient for a single-shot CLI.
func init() {
	configPath = flag.String("config", "", "path to a workload YAML file (built-in demo workload if empty)")
	policyName = flag.String("policy", "", "scheduling policy (overrides the config file's policy when set)")
	quantum = flag.Int("quantum", 0, "time quantum (overrides the config file's quantum when > 0)")
	ticks = flag.Int("ticks", 0, "run exactly this many ticks instead of to completion (0 = to completion)")
	compareFlag = flag.Bool("compare", false, "run the workload under every policy and print a side-by-side comparison")
}

func loadRunConfig() (*config.RunConfig, error) {
	if *configPath == "" {
		return config.Demo(), nil
	}
	return config.Load(*configPath)
}

func runApp() error {
	flag.Parse()

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if *policyName != "" {
		cfg.Policy = *policyName
	}
	if *quantum > 0 {
		cfg.TimeQuantum = *quantum
	}

	if *compareFlag {
		return runCompare(cfg)
	}
	return runSingle(cfg)
}

func runSingle(cfg *config.RunConfig) error {
	eng := engine.New()
	eng.SetPolicy(cfg.Policy)
	eng.SetTimeQuantum(cfg.TimeQuantum)
	for _, spec := range cfg.Specs() {
		eng.AddProcess(spec.Arrival, spec.Burst, spec.Priority)
	}

	if *ticks > 0 {
		for i := 0; i < *ticks && eng.Tick(); i++ {
		}
	} else {
		eng.RunToCompletion()
	}

	state := eng.GetState()
	fmt.Printf("algorithm=%s quantum=%d currentTime=%d completed=%t\n",
		state.Algorithm, state.TimeQuantum, state.CurrentTime, state.IsCompleted)
	render.Gantt(os.Stdout, state.Gantt)
	render.ProcessTable(os.Stdout, state.Processes)
	render.Metrics(os.Stdout, state.Metrics)
	return nil
}

func runCompare(cfg *config.RunConfig) error {
	results, err := comparator.Compare(context.Background(), cfg.Specs(), cfg.TimeQuantum)
	if err != nil {
		return err
	}
	render.Comparison(os.Stdout, comparator.Algorithms, results)
	return nil
}

func main() {
	if err := runApp(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
