package main

import (
	"github.com/spf13/cobra"

	"github.com/Gobd/reststeps/openapi"
	"github.com/Gobd/reststeps/services"
	"github.com/Gobd/reststeps/stub"
)

func newStubCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a local stand-in for the catalogued endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			reg := services.Default()
			doc, err := openapi.FromRegistry(reg, "reststeps stub", version)
			if err != nil {
				return err
			}
			r := stub.NewRouter(reg, stub.Responders(), logger)
			r.Handle("/swagger/*", openapi.SwaggerHandlerMust("/swagger/", doc))
			return serve(cmd.Context(), addr, r, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
