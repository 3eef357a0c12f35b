package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/services"
)

func newMutateCmd() *cobra.Command {
	var (
		body    string
		service string
		field   string
		action  string
		strict  bool
	)
	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Apply a remove or null action to a JSON body and print the result",
		Example: `  reststeps mutate --service consentProvisionProcessResult --field peopleId --action remove
  reststeps mutate --body @request.json --field customer.name --action null --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := mutateInput(cmd.InOrStdin(), body, service)
			if err != nil {
				return err
			}
			b, err := reststeps.ParseBody(raw)
			if err != nil {
				return err
			}

			m := reststeps.Mutator{Missing: reststeps.IgnoreMissing}
			if strict {
				m.Missing = reststeps.FailOnMissing
			}
			out, err := m.ApplyInput(b, field, action)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return err
		},
	}
	cmd.Flags().StringVarP(&body, "body", "b", "", "JSON body, @file, or - for stdin")
	cmd.Flags().StringVarP(&service, "service", "s", "", "start from this service's template instead of --body")
	cmd.Flags().StringVarP(&field, "field", "f", "", "field path, e.g. peopleId or customer.name")
	cmd.Flags().StringVarP(&action, "action", "a", "", "remove or null")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the field is missing")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("action")
	cmd.MarkFlagsMutuallyExclusive("body", "service")
	return cmd
}

func mutateInput(stdin io.Reader, body, service string) ([]byte, error) {
	switch {
	case service != "":
		def, ok := services.Default().Lookup(service)
		if !ok {
			return nil, fmt.Errorf("unknown service %q", service)
		}
		return []byte(def.Template), nil
	case body == "-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(body, "@"):
		return os.ReadFile(strings.TrimPrefix(body, "@"))
	case body != "":
		return []byte(body), nil
	}
	return nil, errors.New("one of --body or --service is required")
}
