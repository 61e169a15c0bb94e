package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pipeline-sim/pipeline-sim/sim"
	"github.com/pipeline-sim/pipeline-sim/sim/trace"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML topology file

	// Topology flags; defaults match the recorded pipeline's original run.
	bucketThreads int // Fine bucketing worker count
	gpus          int // Device worker count (one fine queue each)
	bucketSpare   int // Extra admission slots on each fine queue
	mesherSpare   int // Extra mesh queue admission slots per GPU
	coarseSpare   int // Extra coarse queue admission slots
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "pipeline-sim",
	Short: "Capacity-planning simulator that replays recorded pipeline traces",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// loadTopology merges the optional config file with explicit flags.
// Flags set on the command line win over file values.
func loadTopology(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		fileCfg, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg
	}
	if cmd.Flags().Changed("bucket-threads") {
		cfg.BucketThreads = bucketThreads
	}
	if cmd.Flags().Changed("gpus") {
		cfg.GPUs = gpus
	}
	if cmd.Flags().Changed("bucket-spare") {
		cfg.BucketSpare = bucketSpare
	}
	if cmd.Flags().Changed("mesher-spare") {
		cfg.MesherSpare = mesherSpare
	}
	if cmd.Flags().Changed("coarse-spare") {
		cfg.CoarseSpare = coarseSpare
	}
	return cfg, nil
}

// runCmd replays a trace through the configured topology and prints the
// total simulated completion time.
var runCmd = &cobra.Command{
	Use:   "run <trace.json>",
	Short: "Replay a trace and print the total simulated completion time",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadTopology(cmd)
		if err != nil {
			logrus.Fatalf("Invalid topology: %v", err)
		}

		tr, err := trace.Load(args[0])
		if err != nil {
			logrus.Fatalf("Unable to load trace: %v", err)
		}

		root, err := sim.BuildTree(tr)
		if err != nil {
			logrus.Fatalf("Unable to build work tree: %v", err)
		}

		total, err := sim.Simulate(cfg, root)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		fmt.Println(total)
	},
}

// summarizeCmd prints per-stage statistics for a recorded trace.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <trace.json>",
	Short: "Print per-stage statistics for a recorded trace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tr, err := trace.Load(args[0])
		if err != nil {
			logrus.Fatalf("Unable to load trace: %v", err)
		}
		for _, s := range trace.Summarize(tr) {
			fmt.Printf("%-16s actions=%-6d claims=%-5d pushes=%-5d busy=%-10.3f span=%.3f\n",
				s.Stage, s.Actions, s.Claims, s.Pushes, s.BusyTime, s.Span)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML topology file (flags override file values)")
	runCmd.Flags().IntVar(&bucketThreads, "bucket-threads", 2, "Number of fine bucketing workers")
	runCmd.Flags().IntVar(&gpus, "gpus", 1, "Number of device workers (one fine queue each)")
	runCmd.Flags().IntVar(&bucketSpare, "bucket-spare", 6, "Extra admission slots on each fine queue")
	runCmd.Flags().IntVar(&mesherSpare, "mesher-spare", 8, "Extra mesh queue admission slots per GPU")
	runCmd.Flags().IntVar(&coarseSpare, "coarse-spare", 1, "Extra coarse queue admission slots")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(summarizeCmd)
}
