package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avollmer/stockdesk/internal/compose"
	"github.com/avollmer/stockdesk/internal/form"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/table"
	"github.com/avollmer/stockdesk/internal/view"
	"github.com/spf13/cobra"
)

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}
	cmd.AddCommand(
		newOrdersListCmd(a),
		newOrdersAddCmd(a),
		newOrdersDeleteCmd(a),
		newOrdersSearchCmd(a),
	)
	return cmd
}

func newOrdersListCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.FetchOrders(cmd.Context(), a.orders); err != nil {
				return err
			}
			tbl := table.New(view.OrderColumns(), func(o model.Order) int { return o.OrderID }, table.Config{
				PageSize:       a.cfg.Table.PageSize,
				FilterKey:      "order_id",
				ShowFilter:     true,
				ShowPagination: true,
			})
			tbl.SetRows(a.store.Orders())
			tbl.SetFilter(filter)
			cmd.Print(view.RenderPage(tbl, func(o model.Order) int { return o.OrderID }, view.RenderOptions{Cursor: -1}))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter by order id")
	return cmd
}

func newOrdersAddCmd(a *app) *cobra.Command {
	var id, customerID int
	var orderType, status string
	var items []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Compose and submit a new order",
		Long: `Compose and submit a new order. Articles are selected with repeated
--item flags ("articleID:quantity"). Without --id the order head is asked
for interactively.`,
		Example: "  stockdesk orders add --item 1:2 --item 5:1 --id 10 --customer 3 --type Sale --status Pending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.store.FetchArticles(ctx, a.articles); err != nil {
				return err
			}

			composer := compose.NewComposer(a.store, a.customers, a.orders, a.logger)
			composer.OpenSelection()
			draft, err := buildSelection(a.store.Articles(), items)
			if err != nil {
				return err
			}
			composer.UpdateDraft(draft)
			composer.Save()

			var values form.Values
			if !cmd.Flags().Changed("id") {
				values, err = promptForm("Add new Order", form.OrderFields())
				if err != nil {
					return err
				}
			} else {
				values = form.Values{
					"order_id":    strconv.Itoa(id),
					"customer_id": strconv.Itoa(customerID),
					"order_type":  orderType,
					"status":      status,
				}
			}
			in, err := form.ParseOrderInput(values)
			if err != nil {
				return err
			}

			order, err := composer.Submit(ctx, in)
			a.printNotification(cmd)
			if err != nil {
				return err
			}
			cmd.Printf("order %d submitted, total %s\n", order.OrderID, view.Price(order.Total()))
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "order id")
	cmd.Flags().IntVar(&customerID, "customer", 0, "customer id")
	cmd.Flags().StringVar(&orderType, "type", string(model.OrderTypeSale), "Sale or Return")
	cmd.Flags().StringVar(&status, "status", string(model.StatusPending), "Pending, Shipped, Completed or Delivered")
	cmd.Flags().StringArrayVar(&items, "item", nil, "selected article as articleID:quantity (repeatable)")
	return cmd
}

// buildSelection resolves --item flags against the cached articles.
func buildSelection(articles []model.Article, items []string) (model.ArticleSelection, error) {
	byID := make(map[int]model.Article, len(articles))
	for _, article := range articles {
		byID[article.ArticleID] = article
	}

	var selection model.ArticleSelection
	for _, item := range items {
		idPart, qtyPart, found := strings.Cut(item, ":")
		if !found {
			return model.ArticleSelection{}, fmt.Errorf("invalid item %q, want articleID:quantity", item)
		}
		id, err := strconv.Atoi(idPart)
		if err != nil {
			return model.ArticleSelection{}, fmt.Errorf("invalid article id %q", idPart)
		}
		qty, err := strconv.Atoi(qtyPart)
		if err != nil {
			return model.ArticleSelection{}, fmt.Errorf("invalid quantity %q", qtyPart)
		}
		article, ok := byID[id]
		if !ok {
			return model.ArticleSelection{}, fmt.Errorf("article %d is not in the cached collection", id)
		}
		selection.SelectedArticles = append(selection.SelectedArticles, model.SelectedArticle{
			Article:  &article,
			Quantity: qty,
		})
	}
	return selection, nil
}

func newOrdersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete orders by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			result, err := a.orders.Delete(cmd.Context(), ids)
			a.store.RemoveOrders(result.Succeeded)
			reportBatch(cmd, result)
			return err
		},
	}
}

func newOrdersSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "Look up one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			order, err := a.orders.Search(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmd.Printf("#%d %s %s · %s · %s %s · total %s\n",
				order.OrderID, order.Customer.FirstName, order.Customer.LastName,
				order.Date, order.OrderType, order.Status, view.Price(order.Total()))
			for _, item := range order.Items {
				cmd.Printf("  %dx #%d %s · %s\n",
					item.Quantity, item.Article.ArticleID, item.Article.Name, view.Price(item.Total()))
			}
			return nil
		},
	}
}
