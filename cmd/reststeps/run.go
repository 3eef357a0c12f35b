package main

import (
	"fmt"

	"github.com/cucumber/godog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gobd/reststeps/steps"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		tags   string
	)
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run feature files against the configured endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			suite, err := steps.NewSuite(steps.Options{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{"features"}
			}
			logger.Info("running features", zap.Strings("paths", paths), zap.String("baseURL", cfg.BaseURL))

			status := godog.TestSuite{
				Name:                "reststeps",
				ScenarioInitializer: suite.InitializeScenario,
				Options: &godog.Options{
					Format: format,
					Paths:  paths,
					Tags:   tags,
					Strict: true,
					Output: cmd.OutOrStdout(),
				},
			}.Run()
			if status != 0 {
				return fmt.Errorf("feature run failed with status %d", status)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "godog formatter: pretty, progress, cucumber, junit")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "tag expression, e.g. @smoke && ~@wip")
	return cmd
}
