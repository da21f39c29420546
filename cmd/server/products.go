package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/njpv/shop-admin/internal/apiclient"
	"github.com/njpv/shop-admin/internal/config"
	"github.com/njpv/shop-admin/web"
)

// productsCmd groups catalog commands that talk to the remote API directly
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Inspect the remote catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the products served by the catalog API",
	Args:  cobra.NoArgs,
	RunE:  runProductsList,
}

func init() {
	productsCmd.AddCommand(productsListCmd)
}

func runProductsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		return err
	}

	products, err := client.GetProducts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODIGO\tNOMBRE\tCATEGORIA\tPRECIO\tCANTIDAD\tESTADO")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Codigo, p.Nombre, p.Categoria, web.Money(p.Precio), p.Cantidad, p.EstadoInventario)
	}
	return tw.Flush()
}
