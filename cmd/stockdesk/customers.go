package main

import (
	"fmt"
	"strconv"

	"github.com/avollmer/stockdesk/internal/form"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/table"
	"github.com/avollmer/stockdesk/internal/view"
	"github.com/spf13/cobra"
)

func newCustomersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Manage customers",
	}
	cmd.AddCommand(
		newCustomersListCmd(a),
		newCustomersAddCmd(a),
		newCustomersDeleteCmd(a),
		newCustomersSearchCmd(a),
	)
	return cmd
}

func newCustomersListCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all customers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.FetchCustomers(cmd.Context(), a.customers); err != nil {
				return err
			}
			tbl := table.New(view.CustomerColumns(), func(c model.Customer) int { return c.CustomerID }, table.Config{
				PageSize:       a.cfg.Table.PageSize,
				FilterKey:      "customer_id",
				ShowFilter:     true,
				ShowPagination: true,
			})
			tbl.SetRows(a.store.Customers())
			tbl.SetFilter(filter)
			cmd.Print(view.RenderPage(tbl, func(c model.Customer) int { return c.CustomerID }, view.RenderOptions{Cursor: -1}))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter by customer id")
	return cmd
}

func newCustomersAddCmd(a *app) *cobra.Command {
	var id, zip int
	var first, last, street, location, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new customer",
		Long:  "Create a new customer. Without --id the fields are asked for interactively.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var values form.Values
			if !cmd.Flags().Changed("id") {
				var err error
				values, err = promptForm("Add new Customer", form.CustomerFields())
				if err != nil {
					return err
				}
			} else {
				values = form.Values{
					"customer_id": strconv.Itoa(id),
					"first_name":  first,
					"last_name":   last,
					"street":      street,
					"location":    location,
					"zip_code":    strconv.Itoa(zip),
					"email":       email,
				}
			}
			customer, err := form.ParseCustomer(values)
			if err != nil {
				return err
			}
			submitter := &form.CustomerSubmitter{Store: a.store, Service: a.customers, Logger: a.logger}
			err = submitter.Submit(cmd.Context(), customer)
			a.printNotification(cmd)
			return err
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "customer id")
	cmd.Flags().StringVar(&first, "first-name", "", "first name")
	cmd.Flags().StringVar(&last, "last-name", "", "last name")
	cmd.Flags().StringVar(&street, "street", "", "street")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().IntVar(&zip, "zip", 0, "zip code")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newCustomersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete customers by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			result, err := a.customers.Delete(cmd.Context(), ids)
			a.store.RemoveCustomers(result.Succeeded)
			reportBatch(cmd, result)
			return err
		},
	}
}

func newCustomersSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "Look up one customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			customer, err := a.customers.Search(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmd.Printf("#%d %s %s · %s, %d %s · %s\n",
				customer.CustomerID, customer.FirstName, customer.LastName,
				customer.Street, customer.ZipCode, customer.Location, customer.Email)
			return nil
		},
	}
}
