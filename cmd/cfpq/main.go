// Command cfpq runs path queries over graph files from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quenbyako/cfpq"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/reach"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	configPath string
	verbose    bool

	algorithm   string
	start       []string
	final       []string
	nonterminal string

	cfg Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "cfpq",
		Short:         "Context-free and regular path queries over edge-labeled graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file with default flag values")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log algorithm progress to stderr")

	root.AddCommand(
		a.normalizeCmd(),
		a.acceptsCmd(),
		a.reachCmd(),
		a.regexCmd(),
		a.bfsCmd(),
		a.rfaCmd(),
		a.describeCmd(),
		a.generateCmd(),
	)

	return root
}

// setup fills every flag the user did not set from the config file, then
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if !flags.Changed("verbose") && a.cfg.Verbose {
		a.verbose = true
	}
	if !flags.Changed("algorithm") && a.cfg.Algorithm != "" {
		a.algorithm = a.cfg.Algorithm
	}
	if !flags.Changed("start") && a.cfg.Start != nil {
		a.start = a.cfg.Start
	}
	if !flags.Changed("final") && a.cfg.Final != nil {
		a.final = a.cfg.Final
	}
	if !flags.Changed("nonterminal") && a.cfg.Nonterminal != "" {
		a.nonterminal = a.cfg.Nonterminal
	}

	log, err := newLogger(a.verbose)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

// queryOptions turns the shared flags into façade options.
func (a *app) queryOptions() ([]cfpq.Option, error) {
	opts := []cfpq.Option{cfpq.WithLogger(a.log)}

	if a.algorithm != "" {
		alg, err := reach.ParseAlgorithm(a.algorithm)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cfpq.WithAlgorithm(alg))
	}
	if a.start != nil {
		opts = append(opts, cfpq.WithStart(toNodes(a.start)...))
	}
	if a.final != nil {
		opts = append(opts, cfpq.WithFinal(toNodes(a.final)...))
	}
	if a.nonterminal != "" {
		opts = append(opts, cfpq.WithNonterminal(a.nonterminal))
	}

	return opts, nil
}

func (a *app) loadGraph(path string) (*graph.Graph, error) {
	g, err := graph.ReadFile(path)
	if err != nil {
		return nil, err
	}

	a.log.Debug("graph loaded", zap.String("path", path), zap.Int("nodes", g.NumberOfNodes()), zap.Int("edges", g.NumberOfEdges()))
	return g, nil
}

func toNodes(s []string) []graph.Node {
	res := make([]graph.Node, len(s))
	for i, n := range s {
		res[i] = graph.Node(n)
	}
	return res
}

func exactArgs(n int, names string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.Errorf("expected %s, got %d arguments", names, len(args))
		}
		return nil
	}
}
