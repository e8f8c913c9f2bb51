package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clubmatch",
		Short: "Recommend football clubs from questionnaire answers",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(seedCmd())
	root.AddCommand(collectCmd())
	root.AddCommand(recommendCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func seedCmd() *cobra.Command {
	var clubsOnly, questionsOnly bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load clubs and questionnaire from the seed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(clubsOnly, questionsOnly)
		},
	}

	cmd.Flags().BoolVar(&clubsOnly, "clubs", false, "seed clubs only")
	cmd.Flags().BoolVar(&questionsOnly, "questions", false, "seed questions only")
	return cmd
}

func collectCmd() *cobra.Command {
	var jobs []string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run the feature pipeline jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(jobs)
		},
	}

	cmd.Flags().StringSliceVar(&jobs, "job", nil, "specific jobs to run (e.g., play_style,titles,tickets)")
	return cmd
}

func recommendCmd() *cobra.Command {
	var (
		jsonOutput bool
		answers    []string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Score clubs for a set of answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(answers, jsonOutput)
		},
	}

	cmd.Flags().StringSliceVar(&answers, "answer", nil, "answers as question:choice pairs (e.g., 1:2,2:1)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
