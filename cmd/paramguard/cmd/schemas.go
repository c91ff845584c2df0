package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) schemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the schemas declared in the schema file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCHEMA\tFIELDS\tGROUPS")
			for _, name := range reg.Names() {
				s := reg.MustGet(name)
				groups := "-"
				if g := s.Groups(); len(g) > 0 {
					groups = strings.Join(g, ",")
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(s.Fields()), groups)
			}
			return tw.Flush()
		},
	}
}
