package main

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/k0kubun/pp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/quenbyako/cfpq"
	"github.com/quenbyako/cfpq/cyk"
	"github.com/quenbyako/cfpq/ecfg"
	"github.com/quenbyako/cfpq/grammar"
	"github.com/quenbyako/cfpq/graph"
	"github.com/quenbyako/cfpq/rpq"
)

func (a *app) addNodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.start, "start", nil, "start nodes (default all)")
	cmd.Flags().StringSliceVar(&a.final, "final", nil, "final nodes (default all)")
}

func readGrammar(cmd *cobra.Command, path string) (*grammar.CFG, error) {
	var opts []grammar.ParseOption
	if s, _ := cmd.Flags().GetString("start-symbol"); s != "" {
		opts = append(opts, grammar.WithStart(s))
	}
	return grammar.ParseFile(path, opts...)
}

func addStartSymbolFlag(cmd *cobra.Command) {
	cmd.Flags().String("start-symbol", "", "start symbol of the grammar (default S)")
}

func (a *app) normalizeCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "normalize GRAMMAR",
		Short: "Print the weak Chomsky normal form of a grammar",
		Args:  exactArgs(1, "GRAMMAR"),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGrammar(cmd, args[0])
			if err != nil {
				return err
			}

			if strict {
				fmt.Fprintln(cmd.OutOrStdout(), g.ToCNF().String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfpq.Normalize(g).String())
			return nil
		},
	}
	addStartSymbolFlag(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "print the strict normal form used by CYK")

	return cmd
}

func (a *app) acceptsCmd() *cobra.Command {
	var table, tree bool

	cmd := &cobra.Command{
		Use:   "accepts GRAMMAR [SYMBOL...]",
		Short: "Check whether the grammar derives the word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGrammar(cmd, args[0])
			if err != nil {
				return err
			}
			word := args[1:]

			if (table || tree) && len(word) > 0 {
				cnf := g.ToCNF()
				t := cyk.Build(cnf, word)
				if table {
					fmt.Fprintln(cmd.OutOrStdout(), t.String())
				}
				if d, ok := t.Derive(0, len(word)-1, cnf.Start); tree && ok {
					fmt.Fprintln(cmd.OutOrStdout(), d.String())
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfpq.Accepts(g, word))
			return nil
		},
	}
	addStartSymbolFlag(cmd)
	cmd.Flags().BoolVar(&table, "table", false, "print the CYK table")
	cmd.Flags().BoolVar(&tree, "tree", false, "print a derivation of the word")

	return cmd
}

func (a *app) reachCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reach GRAPH GRAMMAR",
		Short: "Answer a context-free path query",
		Args:  exactArgs(2, "GRAPH and GRAMMAR"),
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			g, err := readGrammar(cmd, args[1])
			if err != nil {
				return err
			}
			opts, err := a.queryOptions()
			if err != nil {
				return err
			}

			if all {
				fmt.Fprintln(cmd.OutOrStdout(), cfpq.Reachability(g, gr, opts...).String())
				return nil
			}

			res, err := cfpq.Query(gr, g, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfpq.PairsResult{Pairs: res}.String())
			return nil
		},
	}
	a.addNodeFlags(cmd)
	addStartSymbolFlag(cmd)
	cmd.Flags().StringVar(&a.algorithm, "algorithm", "", "worklist or matrix (default worklist)")
	cmd.Flags().StringVar(&a.nonterminal, "nonterminal", "", "nonterminal to answer for (default the start symbol)")
	cmd.Flags().BoolVar(&all, "all", false, "print the whole relation")

	return cmd
}

func (a *app) regexCmd() *cobra.Command {
	var python bool

	cmd := &cobra.Command{
		Use:   "regex GRAPH PATTERN",
		Short: "Answer a regular path query",
		Args:  exactArgs(2, "GRAPH and PATTERN"),
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			opts, err := a.queryOptions()
			if err != nil {
				return err
			}

			query := cfpq.QueryRegex
			if python {
				query = cfpq.QueryPythonRegex
			}
			res, err := query(gr, args[1], opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfpq.PairsResult{Pairs: res}.String())
			return nil
		},
	}
	a.addNodeFlags(cmd)
	cmd.Flags().BoolVar(&python, "python", false, "read PATTERN in the usual character syntax, one label per character")

	return cmd
}

func (a *app) bfsCmd() *cobra.Command {
	var perSource bool

	cmd := &cobra.Command{
		Use:   "bfs GRAPH PATTERN",
		Short: "Find nodes reachable from the start nodes under a regular constraint",
		Args:  exactArgs(2, "GRAPH and PATTERN"),
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}

			if a.final != nil {
				res, err := rpq.QueryBFS(gr, nodesOrNil(a.start), toNodes(a.final), args[1], rpq.WithLogger(a.log))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cfpq.PairsResult{Pairs: res}.String())
				return nil
			}

			sources := graph.Restrict(gr, nodesOrNil(a.start)).Sorted()
			res, err := cfpq.ReachableUnderConstraint(gr, sources, args[1], perSource, cfpq.WithLogger(a.log))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
	a.addNodeFlags(cmd)
	cmd.Flags().BoolVar(&perSource, "per-source", false, "report reached nodes for every start node separately")

	return cmd
}

func (a *app) rfaCmd() *cobra.Command {
	var (
		extended bool
		minimize bool
		dump     bool
	)

	cmd := &cobra.Command{
		Use:   "rfa GRAMMAR",
		Short: "Build the recursive automaton of a grammar",
		Args:  exactArgs(1, "GRAMMAR"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rfa *ecfg.RFA
			if extended {
				e, err := ecfg.ParseFile(args[0])
				if err != nil {
					return err
				}
				rfa = e.ToRFA()
			} else {
				g, err := readGrammar(cmd, args[0])
				if err != nil {
					return err
				}
				rfa = cfpq.ToRFA(g)
			}

			if minimize {
				rfa = rfa.Minimize()
			}

			if dump {
				_, err := pp.Fprintln(cmd.OutOrStdout(), rfa.Decompose())
				return errors.Wrap(err, "dumping automaton")
			}
			fmt.Fprintln(cmd.OutOrStdout(), rfa.String())
			return nil
		},
	}
	addStartSymbolFlag(cmd)
	cmd.Flags().BoolVar(&extended, "ecfg", false, "read the grammar as \"Head -> regex\" lines")
	cmd.Flags().BoolVar(&minimize, "minimize", false, "replace every box with its minimal DFA")
	cmd.Flags().BoolVar(&dump, "dump", false, "pretty-print the boolean decomposition of every box")

	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe GRAPH",
		Short: "Print node count, edge count and labels of a graph",
		Args:  exactArgs(1, "GRAPH"),
		RunE: func(cmd *cobra.Command, args []string) error {
			gr, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(graph.Describe(gr))
			if err != nil {
				return errors.Wrap(err, "encoding description")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (a *app) generateCmd() *cobra.Command {
	var labels []string

	cmd := &cobra.Command{
		Use:   "generate N M",
		Short: "Print the edge list of two cycles of N and M nodes sharing node 0",
		Args:  exactArgs(2, "N and M"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(labels) != 2 {
				return errors.Errorf("expected two labels, got %d", len(labels))
			}

			var sizes [2]int
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 {
					return errors.Errorf("cycle size must be a positive number, got %q", arg)
				}
				sizes[i] = n
			}

			gr := graph.TwoCycles(sizes[0], sizes[1], [2]string{labels[0], labels[1]})
			for _, e := range gr.Edges() {
				fmt.Fprintln(cmd.OutOrStdout(), e.From, e.To, e.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&labels, "labels", []string{"a", "b"}, "labels of the first and the second cycle")

	return cmd
}

func nodesOrNil(s []string) []graph.Node {
	if s == nil {
		return nil
	}
	return toNodes(s)
}
