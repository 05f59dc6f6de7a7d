package main

import (
	"fmt"

	"github.com/avollmer/stockdesk/internal/prefs"
	"github.com/avollmer/stockdesk/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse articles, customers and orders interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.store.FetchArticles(ctx, a.articles); err != nil {
				return err
			}
			if err := a.store.FetchCustomers(ctx, a.customers); err != nil {
				return err
			}
			if err := a.store.FetchOrders(ctx, a.orders); err != nil {
				return err
			}

			model := tui.NewModel(a.store, tui.Services{
				Articles:  a.articles,
				Customers: a.customers,
				Orders:    a.orders,
			}, a.cfg.Table.PageSize, a.logger)

			saved, err := prefs.Load("")
			if err != nil {
				a.logger.Warn("Failed to load preferences, using defaults", "error", err)
			}
			model.SetHelpVisible(saved.SidebarOpen)

			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("browse mode failed: %w", err)
			}

			if m, ok := final.(*tui.Model); ok && m.HelpVisible() != saved.SidebarOpen {
				saved.SidebarOpen = m.HelpVisible()
				if err := prefs.Save("", saved); err != nil {
					a.logger.Warn("Failed to persist preferences", "error", err)
				}
			}
			return nil
		},
	}
}
