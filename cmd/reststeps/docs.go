package main

import (
	"fmt"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gobd/reststeps/openapi"
	"github.com/Gobd/reststeps/services"
)

func newDocsCmd(opts *rootOptions) *cobra.Command {
	var (
		out  string
		addr string
	)
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Write or serve the OpenAPI document of the catalogued endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := openapi.FromRegistry(services.Default(), "reststeps", version)
			if err != nil {
				return err
			}

			if addr == "" {
				data, err := doc.MarshalJSON()
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				return os.WriteFile(out, data, 0o644)
			}

			_, logger, err := opts.load()
			if err != nil {
				return err
			}
			r := chi.NewRouter()
			r.Handle("/swagger/*", openapi.SwaggerHandlerMust("/swagger/", doc))
			logger.Info("swagger UI", zap.String("url", "http://"+addr+"/swagger/"))
			return serve(cmd.Context(), addr, r, logger)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the JSON document to this file instead of stdout")
	cmd.Flags().StringVar(&addr, "serve", "", "serve Swagger UI on this address, e.g. :8081")
	return cmd
}
