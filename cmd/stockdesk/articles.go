package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/avollmer/stockdesk/internal/form"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/table"
	"github.com/avollmer/stockdesk/internal/view"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newArticlesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Manage articles",
	}
	cmd.AddCommand(
		newArticlesListCmd(a),
		newArticlesAddCmd(a),
		newArticlesUpdateCmd(a),
		newArticlesDeleteCmd(a),
		newArticlesSearchCmd(a),
		newArticlesImportCmd(a),
	)
	return cmd
}

func newArticlesListCmd(a *app) *cobra.Command {
	var filter string
	var page int
	var sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all articles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.FetchArticles(cmd.Context(), a.articles); err != nil {
				return err
			}
			tbl := table.New(view.ArticleColumns(), func(ar model.Article) int { return ar.ArticleID }, table.Config{
				PageSize:       a.cfg.Table.PageSize,
				FilterKey:      "article_id",
				ShowFilter:     true,
				ShowPagination: true,
			})
			tbl.SetRows(a.store.Articles())
			tbl.SetFilter(filter)
			if sortKey != "" {
				tbl.ToggleSort(sortKey)
			}
			for i := 1; i < page; i++ {
				tbl.NextPage()
			}
			cmd.Print(view.RenderPage(tbl, func(ar model.Article) int { return ar.ArticleID }, view.RenderOptions{Cursor: -1}))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter by article id")
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	cmd.Flags().StringVar(&sortKey, "sort", "", "column key to sort by")
	return cmd
}

func newArticlesAddCmd(a *app) *cobra.Command {
	var id, stock int
	var name, price, manufacturer, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new article",
		Long:  "Create a new article. Without --id the fields are asked for interactively.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var values form.Values
			if !cmd.Flags().Changed("id") {
				var err error
				values, err = promptForm("Add new Article", form.ArticleFields())
				if err != nil {
					return err
				}
			} else {
				values = form.Values{
					"article_id":   strconv.Itoa(id),
					"name":         name,
					"price":        price,
					"stock":        strconv.Itoa(stock),
					"manufacturer": manufacturer,
					"category":     category,
				}
			}
			article, err := form.ParseArticle(values)
			if err != nil {
				return err
			}
			submitter := &form.ArticleSubmitter{Store: a.store, Service: a.articles, Logger: a.logger}
			err = submitter.Submit(cmd.Context(), article)
			a.printNotification(cmd)
			return err
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "article id")
	cmd.Flags().StringVar(&name, "name", "", "article name")
	cmd.Flags().StringVar(&price, "price", "0", "price")
	cmd.Flags().IntVar(&stock, "stock", 0, "stock")
	cmd.Flags().StringVar(&manufacturer, "manufacturer", "", "manufacturer")
	cmd.Flags().StringVar(&category, "category", "", "category (small, medium, large or free text)")
	return cmd
}

func newArticlesUpdateCmd(a *app) *cobra.Command {
	var id, stock int
	var name, price, manufacturer, category string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an existing article",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsedPrice, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid price %q", price)
			}
			article := model.Article{
				ArticleID:    id,
				Name:         name,
				Price:        parsedPrice,
				Stock:        stock,
				Manufacturer: manufacturer,
				Category:     model.Category(category),
			}
			if err := a.articles.Update(cmd.Context(), article); err != nil {
				return err
			}
			cmd.Printf("article %d updated\n", id)
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "article id")
	cmd.Flags().StringVar(&name, "name", "", "article name")
	cmd.Flags().StringVar(&price, "price", "0", "price")
	cmd.Flags().IntVar(&stock, "stock", 0, "stock")
	cmd.Flags().StringVar(&manufacturer, "manufacturer", "", "manufacturer")
	cmd.Flags().StringVar(&category, "category", "", "category")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newArticlesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete articles by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			result, err := a.articles.Delete(cmd.Context(), ids)
			a.store.RemoveArticles(result.Succeeded)
			reportBatch(cmd, result)
			return err
		},
	}
}

func newArticlesSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <id>",
		Short: "Look up one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			article, err := a.articles.Search(cmd.Context(), id)
			if err != nil {
				return err
			}
			cmd.Printf("#%d %s · %s · stock %d · %s %s\n",
				article.ArticleID, article.Name, view.Price(article.Price),
				article.Stock, article.Manufacturer, article.Category)
			return nil
		},
	}
}

func newArticlesImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import articles from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = file.Close() }()
			if err := a.transfer.ImportArticleCSV(cmd.Context(), args[0], file); err != nil {
				return err
			}
			if err := a.store.FetchArticles(cmd.Context(), a.articles); err != nil {
				return err
			}
			cmd.Printf("imported, %d articles cached\n", len(a.store.Articles()))
			return nil
		},
	}
}
