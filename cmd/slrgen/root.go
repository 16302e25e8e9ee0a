package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

// tracer traces with key 'slrgen.cli'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.cli")
}

var traceKeys = []string{
	"slrgen.cli",
	"slrgen.spec",
	"slrgen.grammar",
	"slrgen.driver",
}

var rootFlags = struct {
	trace  *string
	config *string
}{}

// cfg is loaded before any subcommand runs.
var cfg = defaultConfig()

var rootCmd = &cobra.Command{
	Use:   "slrgen",
	Short: "Generate an SLR(1) parsing table from a grammar",
	Long: `slrgen reads production rules like 'E -> E + T | T', one rule per line,
and generates the LR(0) automaton and the SLR(1) parsing table of the grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "TOML config file path")
}

func setUp(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}

	c, err := loadConfig(*rootFlags.config)
	if err != nil {
		return err
	}
	cfg = c
	tracer().Debugf("config: %+v", cfg)

	return nil
}

func Execute() error {
	return rootCmd.Execute()
}
