// Package cmd provides the root command and CLI setup for mutok.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/controller"
	"mutok.dev/pkg/mutok/internal/domain"
	"mutok.dev/pkg/mutok/internal/metrics"
	m "mutok.dev/pkg/mutok/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var corpusConnector adapter.CorpusConnector
var collectors *metrics.Metrics
var workflow domain.Workflow
var ui controller.UI

// metricsServer is running while a command executes with metrics.listen set.
var metricsServer *http.Server

var seedFlag uint64
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	corpusConnector = adapter.ConnectCorpus
	collectors = metrics.New()
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		corpusConnector,
		ui,
		collectors,
	)
}

const rootLongDescription = `mutok generates token-level mutations of tokenized programs and fixed-width
training windows from a fold-partitioned corpus.

A corpus is a SQLite database of token vectors assigned to folds 0-9. Token
text comes from the vocabulary file (vocabulary.path).`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "mutok",
		Short:         "Token-level mutation generator and training-window sampler",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			if addr := viper.GetString(metricsListenKey); addr != "" {
				metricsServer = startMetricsServer(addr, collectors.Handler())
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return stopMetricsServer(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(vocabularyFlagName, "V", viper.GetString(vocabularyPathKey), "vocabulary file mapping token indices to text")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(vocabularyFlagName), vocabularyPathKey)

	cmd.PersistentFlags().Uint64Var(&seedFlag, seedFlagName, viper.GetUint64(runSeedKey), "random seed (0 picks a time based seed)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(seedFlagName), runSeedKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().String(metricsListenFlagName, viper.GetString(metricsListenKey), "serve Prometheus metrics on this address while running (e.g. :9090)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(metricsListenFlagName), metricsListenKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// loadVocabulary reads the configured vocabulary file.
func loadVocabulary() (m.Vocabulary, error) {
	path := m.Path(viper.GetString(vocabularyPathKey))

	vocab, err := adapter.LoadVocabulary(path)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	return vocab, nil
}

func startMetricsServer(addr string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Serving metrics", "addr", addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server stopped", "addr", addr, "error", err)
		}
	}()

	return server
}

func stopMetricsServer(ctx context.Context) error {
	if metricsServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := metricsServer.Shutdown(ctx)
	metricsServer = nil

	return err
}
