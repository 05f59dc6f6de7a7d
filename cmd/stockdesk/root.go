package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/avollmer/stockdesk/internal/config"
	"github.com/avollmer/stockdesk/internal/form"
	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/service"
	"github.com/avollmer/stockdesk/internal/store"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// app bundles the wired dependencies shared by all commands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	articles   *service.ArticleService
	customers  *service.CustomerService
	orders     *service.OrderService
	statistics *service.StatisticsService
	transfer   *service.TransferService
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configFile string
	var apiURL, token string

	root := &cobra.Command{
		Use:           "stockdesk",
		Short:         "Terminal client for the inventory management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if apiURL != "" {
				cfg.API.BaseURL = apiURL
			}
			if token != "" {
				cfg.API.Token = token
			}
			a.setup(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token (overrides config)")

	root.AddCommand(
		newArticlesCmd(a),
		newCustomersCmd(a),
		newOrdersCmd(a),
		newStatsCmd(a),
		newReceiptCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func (a *app) setup(cfg *config.Config) {
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	gw := gateway.NewClient(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	}, logger)

	a.cfg = cfg
	a.logger = logger
	a.store = store.New(logger)
	a.articles = service.NewArticleService(gw, logger)
	a.customers = service.NewCustomerService(gw, logger)
	a.orders = service.NewOrderService(gw, logger)
	a.statistics = service.NewStatisticsService(gw, logger)
	a.transfer = service.NewTransferService(gw, logger)
}

// printNotification prints the store's notification slot, the CLI stand-in
// for the transient toast.
func (a *app) printNotification(cmd *cobra.Command) {
	n := a.store.Notification()
	switch {
	case n.Error != "":
		cmd.PrintErrln("error:", n.Error)
	case n.Success != "":
		cmd.Println(n.Success)
	}
}

// promptForm renders the field definitions as an interactive form and
// returns the entered values.
func promptForm(title string, fields []form.Field) (form.Values, error) {
	pointers := make(map[string]*string, len(fields))
	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		value := new(string)
		pointers[f.Name] = value
		input := huh.NewInput().
			Title(f.Label).
			Placeholder(f.Placeholder).
			Value(value)
		required := f.Required
		numeric := f.Numeric
		label := f.Label
		input = input.Validate(func(v string) error {
			if required && v == "" {
				return fmt.Errorf("%s is required", label)
			}
			if numeric && v != "" {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return fmt.Errorf("%s must be a number", label)
				}
			}
			return nil
		})
		inputs = append(inputs, input)
	}

	group := huh.NewGroup(inputs...).Title(title)
	if err := huh.NewForm(group).Run(); err != nil {
		return nil, fmt.Errorf("form aborted: %w", err)
	}

	values := make(form.Values, len(pointers))
	for name, ptr := range pointers {
		values[name] = *ptr
	}
	return values, nil
}

func parseIDArgs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func reportBatch(cmd *cobra.Command, result *service.BatchResult) {
	cmd.Printf("deleted %d row(s)\n", len(result.Succeeded))
	for id, err := range result.Failed {
		cmd.PrintErrf("id %d failed: %v\n", id, err)
	}
}
