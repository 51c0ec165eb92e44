// Package main is the entrypoint for the incident-blaster load generator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gmckeown/incident-blaster/internal/blaster"
	"github.com/gmckeown/incident-blaster/internal/config"
	"github.com/gmckeown/incident-blaster/internal/generate"
	"github.com/gmckeown/incident-blaster/internal/logging"
	"github.com/gmckeown/incident-blaster/internal/remedy"
)

var rootCmd = &cobra.Command{
	Use:   "incident-blaster",
	Short: "Generate randomized test incidents in a Remedy system",
	Long: `incident-blaster floods a BMC Remedy instance with synthetic incidents for
load and volume testing. Field values are sampled at random from the value
pools supplied in the JSON configuration documents.

BE CAREFUL! Check the configuration before running; many incidents can be
created in a short space of time.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addFlags()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("INCIDENT_BLASTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addFlags() {
	rootCmd.Flags().StringP("config-dir", "c", "config", "directory containing the JSON configuration documents")
	rootCmd.Flags().IntP("count", "n", -1, "number of incidents to create (overrides incidentsToCreate; negative uses the configured value)")
	rootCmd.Flags().Int64("seed", 0, "random seed for field sampling (0 seeds from the clock)")
	rootCmd.Flags().Bool("debug", false, "enable verbose diagnostic output")
	rootCmd.Flags().String("metrics-addr", "", "address to serve Prometheus metrics on during the run (empty disables)")
	_ = viper.BindPFlag("config-dir", rootCmd.Flags().Lookup("config-dir"))
	_ = viper.BindPFlag("count", rootCmd.Flags().Lookup("count"))
	_ = viper.BindPFlag("seed", rootCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("metrics-addr", rootCmd.Flags().Lookup("metrics-addr"))
}

func run(ctx context.Context) error {
	logger := logging.NewLogger(viper.GetBool("debug"))
	logger.Info("starting incident-blaster")

	dir := viper.GetString("config-dir")
	cfg, err := config.Load(dir)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	pools, err := generate.NewPools(cfg.Standard, cfg.Customers)
	if err != nil {
		logger.Error("failed to build value pools", "error", err)
		return err
	}

	if count := viper.GetInt("count"); count >= 0 {
		cfg.Runtime.IncidentsToCreate = count
	}

	seed := viper.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := generate.NewGenerator(pools, rand.New(rand.NewSource(seed)))

	logger.Info("configuration loaded",
		"remedy_url", cfg.Rest.APIURL,
		"companies", len(cfg.Customers),
		"incidents_to_create", cfg.Runtime.IncidentsToCreate,
		"next_incident_number", cfg.Runtime.NextIncidentNumber,
	)

	if addr := viper.GetString("metrics-addr"); addr != "" {
		startMetricsServer(addr, logger)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := remedy.Login(ctx, &cfg.Rest, logging.WithComponent(logger, "remedy"))
	if err != nil {
		logger.Error("Remedy login failed", "error", err)
		return err
	}

	runner := blaster.NewRunner(session, gen, &cfg.Rest, logging.WithComponent(logger, "blaster"))
	summary, runErr := runner.Run(ctx, &cfg.Runtime)

	// Logout even when the run context was cancelled.
	if err := session.Logout(context.Background()); err != nil {
		logger.Error("Remedy logout failed", "error", err)
	}

	printSummary(summary)

	if err := config.SaveRuntime(dir, cfg.Runtime); err != nil {
		logger.Error("failed to persist runtime values; the next run may reuse incident numbers", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

// startMetricsServer exposes the run counters for scraping during long load
// runs.
func startMetricsServer(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("metrics server starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()
}

func printSummary(s blaster.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Attempted", "Created", "Errors", "Elapsed"})
	tw.AppendRow(table.Row{s.Attempted, s.Created, s.Errors, s.Elapsed.Round(time.Millisecond)})
	tw.Render()
}
