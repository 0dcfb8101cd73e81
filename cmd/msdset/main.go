package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielemorotti/msdset/internal/observability"
	"github.com/danielemorotti/msdset/internal/profile"
	"github.com/danielemorotti/msdset/pipeline"
	"github.com/danielemorotti/msdset/plugin/downloader"
	"github.com/danielemorotti/msdset/store"
	"github.com/danielemorotti/msdset/store/db"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "msdset",
	Short: "Builds lyrics, tag and similarity datasets from the Million Song Dataset",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:           viper.GetString("mode"),
			Data:           viper.GetString("data"),
			Output:         viper.GetString("output"),
			ValidationSize: viper.GetFloat64("validation-size"),
			Seed:           viper.GetInt64("seed"),
			SkipDownload:   viper.GetBool("skip-download"),
			EvalPolicy:     viper.GetString("eval-policy"),
			Version:        version,
		}
		if err := instanceProfile.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := observability.NewLogger(instanceProfile.IsDev())
		run := observability.NewRunContext(logger)

		if !instanceProfile.SkipDownload {
			dl := downloader.New(instanceProfile.Data, logger)
			if err := dl.FetchAll(ctx, downloader.DefaultFiles()); err != nil {
				run.Error("failed to fetch source files", err)
				return err
			}
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			run.Error("failed to open source databases", err)
			return err
		}

		runner := pipeline.NewRunner(instanceProfile, store.New(dbDriver, instanceProfile), run)
		if err := runner.Run(ctx); err != nil {
			run.Error("build failed", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the run, can be "dev" or "prod"`)
	rootCmd.PersistentFlags().String("data", "downloads", "directory holding the downloaded source files")
	rootCmd.PersistentFlags().String("output", ".", "directory the derived datasets are written to")
	rootCmd.PersistentFlags().Float64("validation-size", 0.2, "fraction of the GNN pool sampled into validation")
	rootCmd.PersistentFlags().Int64("seed", 0, "train/validation sampler seed, 0 seeds from the current time")
	rootCmd.PersistentFlags().Bool("skip-download", false, "require source files to be already present")
	rootCmd.PersistentFlags().String("eval-policy", "two-pass", `evaluation filter policy, "two-pass" or "single-pass"`)

	for _, flag := range []string{"mode", "data", "output", "validation-size", "seed", "skip-download", "eval-policy"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("msdset")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
