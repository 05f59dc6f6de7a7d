package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avollmer/stockdesk/internal/service"
	"github.com/spf13/cobra"
)

func newReceiptCmd(a *app) *cobra.Command {
	var orderID, articleID, customerID int
	var outDir string

	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Download a PDF receipt",
		Long: `Download a PDF receipt for an order (--order) or for a single article
together with a customer (--article and --customer).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var req service.ReceiptRequest

			switch {
			case cmd.Flags().Changed("order"):
				order, err := a.orders.Search(ctx, orderID)
				if err != nil {
					return err
				}
				req.Order = order
			case cmd.Flags().Changed("article") && cmd.Flags().Changed("customer"):
				article, err := a.articles.Search(ctx, articleID)
				if err != nil {
					return err
				}
				customer, err := a.customers.Search(ctx, customerID)
				if err != nil {
					return err
				}
				req.Articles = article
				req.Customer = customer
			default:
				return fmt.Errorf("pass --order, or --article together with --customer")
			}

			data, filename, err := a.transfer.GenerateReceipt(ctx, req)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			cmd.Printf("wrote %s (%d bytes)\n", path, len(data))
			return nil
		},
	}
	cmd.Flags().IntVar(&orderID, "order", 0, "order id")
	cmd.Flags().IntVar(&articleID, "article", 0, "article id")
	cmd.Flags().IntVar(&customerID, "customer", 0, "customer id")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the PDF into")
	return cmd
}
