package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the aggregate statistics report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.statistics.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println("Articles")
			for _, id := range sortedKeys(stats.ArticleStatistics.OrderedQuantities) {
				cmd.Printf("  #%d ordered %d, revenue %s\n",
					id,
					stats.ArticleStatistics.OrderedQuantities[id],
					stats.ArticleStatistics.ArticleRevenue[id].StringFixed(2))
			}

			cmd.Println("Orders")
			for _, id := range sortedKeys(stats.OrderStatistics.TotalPrices) {
				cmd.Printf("  #%d total %s\n", id, stats.OrderStatistics.TotalPrices[id].StringFixed(2))
			}

			cmd.Println("Customers")
			for _, id := range sortedKeys(stats.CustomerStatistics.NumberOfOrders) {
				cmd.Printf("  #%d orders %d, revenue %s, most bought %q\n",
					id,
					stats.CustomerStatistics.NumberOfOrders[id],
					stats.CustomerStatistics.TotalRevenue[id].StringFixed(2),
					stats.CustomerStatistics.MostBoughtItem[id])
			}
			return nil
		},
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
