package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/industry-atlas/internal/classification"
	"github.com/Veraticus/industry-atlas/internal/cli"
	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/flatfile"
	"github.com/Veraticus/industry-atlas/internal/model"
)

func taxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Inspect business categories and the classifications they group",
	}

	cmd.AddCommand(taxonomyListCmd())
	cmd.AddCommand(taxonomyBrowseCmd())

	return cmd
}

func taxonomyListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List business categories",
		Long:  `Display the business categories in matching order with their keyword counts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			defs := e.table.Search(search)
			if len(defs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("No categories match %q.", search)))
				return nil
			}
			return writeCategories(cmd.OutOrStdout(), defs)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only list categories whose label or keywords contain this term")

	return cmd
}

func writeCategories(w io.Writer, defs []model.CategoryDefinition) error {
	table := cli.NewTable(w, "ID", "Category", "Keywords")
	for _, def := range defs {
		label := def.Label
		if def.Fallback {
			label += " " + cli.SubtleStyle.Render("(fallback)")
		}
		table.Row(def.ID, label, strconv.Itoa(len(def.Keywords)))
	}
	return table.Flush()
}

func taxonomyBrowseCmd() *cobra.Command {
	var (
		source   string
		category string
		search   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Group the classification file into business categories",
		Long: `Load the industry classification file, assign every entry to a business
category and list the entries of one category (or all of them).

The source is a local path or an http(s) URL; it defaults to taxonomy.source.
An unavailable source is reported and browsed as empty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if source == "" {
				source = e.app.Taxonomy.Source
			}
			if category != "" && category != classification.AllCategories {
				if _, ok := e.table.ByID(category); !ok {
					return common.NewUserError(fmt.Sprintf("unknown category %q", category), nil)
				}
			}

			records, err := flatfile.NewLoader().Load(ctx, source)
			if err != nil {
				if !errors.Is(err, common.ErrSourceUnavailable) {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Classification source unavailable; showing empty categories."))
			}

			buckets := e.cache.Buckets(records)
			return writeBrowse(cmd.OutOrStdout(), e.cache.Classifier(), buckets, category, search, limit)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "classification file path or URL")
	cmd.Flags().StringVar(&category, "category", classification.AllCategories, "category id to list, or \"all\"")
	cmd.Flags().StringVar(&search, "search", "", "only list entries whose code or name contains this term")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to list (0 for no limit)")

	return cmd
}

func writeBrowse(w io.Writer, classifier *classification.Classifier, buckets *classification.Buckets, category, search string, limit int) error {
	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%d classifications", buckets.Total())))

	counts := cli.NewTable(w, "ID", "Category", "Entries")
	for _, bucket := range buckets.All() {
		counts.Row(bucket.Definition.ID, bucket.Definition.Label, strconv.Itoa(bucket.Count()))
	}
	if err := counts.Flush(); err != nil {
		return err
	}

	items := classification.Browse(buckets, category, search)
	common.LogDebug("browsed classifications", common.Fields{
		"category": category,
		"search":   search,
		"matches":  len(items),
	})

	fmt.Fprintln(w)
	if len(items) == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No matching classifications."))
		return nil
	}

	shown := items
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	list := cli.NewTable(w, "Code", "Level", "Name", "Category", "Keyword")
	for _, item := range shown {
		id, keyword := classifier.Explain(item)
		list.Row(item.Code, strconv.Itoa(item.Level), item.Name, id, keyword)
	}
	if err := list.Flush(); err != nil {
		return err
	}

	if len(shown) < len(items) {
		fmt.Fprintln(w, cli.SubtleStyle.Render(
			fmt.Sprintf("... %d more (use --limit 0 to list all)", len(items)-len(shown))))
	}
	return nil
}
