package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCatalogCmd(st *state) *cobra.Command {
	var customers int

	cmd := &cobra.Command{
		Use:   "seed-catalog",
		Short: "Load the catalog, synthesizing brands, products and stores when empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("customers") {
				st.cfg.FallbackCustomers = customers
			}
			sess, err := st.open(ctx, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			catalog, synthesized, err := sess.services.Catalog.LoadCatalog(ctx)
			if err != nil {
				return err
			}
			origin := "existing"
			if synthesized {
				origin = "synthesized"
			}
			fmt.Fprintf(st.stdout, "Catalog %s: %d brands, %d products, %d stores, %d customers\n",
				origin, len(catalog.Brands), len(catalog.Products), len(catalog.Stores), len(catalog.Customers))
			return nil
		},
	}

	cmd.Flags().IntVar(&customers, "customers", 0, "customers to synthesize when the customer pool is empty")
	return cmd
}
