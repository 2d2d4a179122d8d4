package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SscSPs/retail_stt_seeder/internal/core/domain"
	"github.com/SscSPs/retail_stt_seeder/internal/platform/config"
)

func newProfilesCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [name]",
		Short: "List the built-in noise profiles or print one as YAML",
		Long: `Without an argument, profiles lists the built-in noise profiles. With a name
or a file path it prints that profile as YAML, ready to be edited and passed back
with --profile.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				p, err := config.LoadNoiseProfile(args[0])
				if err != nil {
					return err
				}
				data, err := config.MarshalNoiseProfile(p)
				if err != nil {
					return err
				}
				_, err = st.stdout.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(st.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tNOISE")
			for _, name := range domain.BuiltinProfileNames() {
				p, err := domain.BuiltinProfile(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, p.Summary())
			}
			return tw.Flush()
		},
	}
}
