package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/sparsego"
)

var (
	cfgFile string
	logger  *sparsego.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sparsebench",
	Short: "Benchmark launcher for the sparsego runtime",
	Long: `sparsebench drives repeatable micro-benchmarks over the sparsego
runtime: insertion throughput, tiled pipeline commits, and a PageRank
smoke workload.

Each benchmark runs inner iterations back to back and repeats the block
outer times, reporting min/mean/max over the outer repetitions. Flags may
also be set through SPARSEBENCH_* environment variables or a config file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = sparsego.NewTextLogger(level)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default sparsebench.yaml in the working directory)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.Int("size", 1_000_000, "domain size")
	pf.Int("threads", 0, "worker threads (0 = GOMAXPROCS)")
	pf.Int("inner", 10, "inner iterations per repetition")
	pf.Int("outer", 5, "outer repetitions")

	for _, key := range []string{"verbose", "size", "threads", "inner", "outer"} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("sparsebench")
	}

	viper.SetEnvPrefix("SPARSEBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
