package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/industry-atlas/internal/cli"
	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/export"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/handoff"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

func companiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Search, import and export the company directory",
	}

	cmd.AddCommand(companiesSearchCmd())
	cmd.AddCommand(companiesGetCmd())
	cmd.AddCommand(companiesImportCmd())
	cmd.AddCommand(companiesExportCmd())
	cmd.AddCommand(companiesStatsCmd())

	return cmd
}

// searchFlags are the command-line form of filter.CompanyFilters.
type searchFlags struct {
	search      string
	name        string
	businessID  string
	industry    string
	city        string
	companyType string
	address     string
	postalCode  string
	website     string
	status      string
	minRevenue  float64
	maxRevenue  float64
	from        string
	to          string
	categories  []string
	page        int
	limit       int
}

func (f *searchFlags) register(cmd *cobra.Command, paging bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.search, "search", "", "match name or business id")
	flags.StringVar(&f.name, "name", "", "company name contains")
	flags.StringVar(&f.businessID, "business-id", "", "business id contains")
	flags.StringVar(&f.industry, "industry", "", "industry contains")
	flags.StringVar(&f.city, "city", "", "city contains")
	flags.StringVar(&f.companyType, "company-type", "", "company type equals")
	flags.StringVar(&f.address, "address", "", "address contains")
	flags.StringVar(&f.postalCode, "postal-code", "", "postal code contains")
	flags.StringVar(&f.website, "website", "", "website contains")
	flags.StringVar(&f.status, "status", "", "status equals")
	flags.Float64Var(&f.minRevenue, "min-revenue", 0, "minimum revenue")
	flags.Float64Var(&f.maxRevenue, "max-revenue", 0, "maximum revenue")
	flags.StringVar(&f.from, "registered-from", "", "earliest registration date (YYYY-MM-DD)")
	flags.StringVar(&f.to, "registered-to", "", "latest registration date (YYYY-MM-DD)")
	flags.StringSliceVar(&f.categories, "category", nil, "business category ids (overrides an applied selection)")
	if paging {
		flags.IntVar(&f.page, "page", filter.DefaultPage, "result page")
		flags.IntVar(&f.limit, "limit", 0, "results per page (default search.page_size)")
	}
}

// filters converts the flags. Unset bounds stay nil; category ids are
// resolved against table.
func (f *searchFlags) filters(cmd *cobra.Command, table *taxonomy.Table) (filter.CompanyFilters, error) {
	out := filter.CompanyFilters{
		Search:      f.search,
		CompanyName: f.name,
		BusinessID:  f.businessID,
		Industry:    f.industry,
		City:        f.city,
		CompanyType: f.companyType,
		Address:     f.address,
		PostalCode:  f.postalCode,
		Website:     f.website,
		Status:      f.status,
		Page:        f.page,
		Limit:       f.limit,
	}

	if cmd.Flags().Changed("min-revenue") {
		v := f.minRevenue
		out.MinRevenue = &v
	}
	if cmd.Flags().Changed("max-revenue") {
		v := f.maxRevenue
		out.MaxRevenue = &v
	}

	var err error
	if out.MinDate, err = parseDateFlag("registered-from", f.from); err != nil {
		return out, err
	}
	if out.MaxDate, err = parseDateFlag("registered-to", f.to); err != nil {
		return out, err
	}

	if len(f.categories) > 0 {
		ids, err := resolveIDs(table, f.categories)
		if err != nil {
			return out, err
		}
		out.Categories = model.NewFilterSelection(ids...)
	}
	return out, nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(filter.DateLayout, value)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("--%s must be a date like 2024-01-31", name), err)
	}
	return &d, nil
}

// applyPendingSelection consumes the selection handed off by 'atlas select
// apply' unless categories were given explicitly.
func applyPendingSelection(cmd *cobra.Command, e *env, filters *filter.CompanyFilters) error {
	if cmd.Flags().Changed("category") {
		return nil
	}
	ctx := cmd.Context()

	store, err := e.session(ctx)
	if err != nil {
		return err
	}
	sel, ok, err := handoff.TakeSelection(ctx, store)
	if err != nil {
		return err
	}
	if ok {
		slog.Debug("using applied category selection", "categories", sel.IDs())
		filters.Categories = sel
	}
	return nil
}

func logPredicate(tr *filter.Translator, filters filter.CompanyFilters) {
	pred := tr.Build(filters)
	where, args, err := filter.Render(pred, filter.SQLite)
	slog.Debug("company filter",
		"predicate", pred.String(),
		"where", where,
		"args", args,
		"render_error", err)
	if unknown := tr.UnknownIDs(filters.Categories); len(unknown) > 0 {
		slog.Warn("ignoring unknown categories", "ids", unknown)
	}
}

func companiesSearchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search companies",
		Long: `Search the company directory. Every flag narrows the result.

Without --category, a selection applied with 'atlas select apply' is used
once and then discarded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			filters, err := flags.filters(cmd, e.table)
			if err != nil {
				return err
			}
			if filters.Limit == 0 {
				filters.Limit = e.app.PageSize
			}
			if err := applyPendingSelection(cmd, e, &filters); err != nil {
				return err
			}
			logPredicate(e.translator(), filters)

			store, err := e.companies(ctx)
			if err != nil {
				return err
			}
			page, err := store.SearchCompanies(ctx, filters)
			if err != nil {
				return searchError(err)
			}
			return writeCompanyPage(cmd.OutOrStdout(), page)
		},
	}

	flags.register(cmd, true)

	return cmd
}

// searchError turns store failures into the message users see.
func searchError(err error) error {
	switch {
	case errors.Is(err, common.ErrStoreUnavailable):
		return common.NewUserError("the company store is temporarily unavailable, try again shortly", err)
	case common.IsStoreError(err):
		return common.NewUserError("failed to load companies", err)
	default:
		return common.NewUserError("invalid search", err)
	}
}

func writeCompanyPage(w io.Writer, page *model.CompanyPage) error {
	if page.Total == 0 {
		fmt.Fprintln(w, cli.FormatInfo("No companies found."))
		return nil
	}

	table := cli.NewTable(w, "ID", "Name", "Business ID", "Industry", "City", "Registered")
	for _, c := range page.Companies {
		table.Row(
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.BusinessID,
			c.Industry,
			c.City,
			formatDate(c.RegistrationDate),
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d, %d companies",
		page.Page, page.TotalPages(), page.Total)))
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(filter.DateLayout)
}

func companiesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid company id %q", args[0]), err)
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			store, err := e.companies(ctx)
			if err != nil {
				return err
			}
			company, err := store.GetCompany(ctx, id)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no company with id %d", id), err)
			}
			if err != nil {
				return searchError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(company.Name, describeCompany(company)))
			return nil
		},
	}
}

func describeCompany(c *model.Company) string {
	var b strings.Builder
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-18s %s\n", label+":", value)
		}
	}

	field("Business ID", c.BusinessID)
	field("Industry", c.Industry)
	field("Company type", c.CompanyType)
	field("Status", c.Status)
	field("Address", strings.TrimSpace(strings.Join([]string{c.Address, c.PostalCode, c.City}, " ")))
	field("Country", c.Country)
	field("Website", c.Website)
	field("Email", c.Email)
	field("Phone", c.Phone)
	field("Registered", formatDate(c.RegistrationDate))
	if c.Revenue != nil {
		field("Revenue", strconv.FormatFloat(*c.Revenue, 'f', 2, 64))
	}
	return strings.TrimRight(b.String(), "\n")
}

// importBatchSize is how many companies are saved per transaction.
const importBatchSize = 500

func companiesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import companies from a CSV file",
		Long: `Import companies from a CSV file with a header row. The business_id and
name columns are required; rows with a known business id are updated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			companies, err := readCompanyFile(cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No companies in file."))
				return nil
			}

			store, err := e.companies(ctx)
			if err != nil {
				return err
			}

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(companies), "Saving companies...")
			for start := 0; start < len(companies); start += importBatchSize {
				batch := companies[start:min(start+importBatchSize, len(companies))]
				if err := store.SaveCompanies(ctx, batch); err != nil {
					return fmt.Errorf("failed to save companies %d-%d: %w", start+1, start+len(batch), err)
				}
				if err := bar.Add(len(batch)); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			common.LogInfo("Imported companies", common.Fields{"file": args[0], "count": len(companies)})
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d companies.", len(companies))))
			return nil
		},
	}
}

func readCompanyFile(progress io.Writer, path string) ([]model.Company, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied import file
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	spinner := cli.NewProgressBar(progress, -1, "Reading companies...")
	companies, err := export.ReadCSV(f, func() { _ = spinner.Add(1) })
	_ = spinner.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return companies, nil
}
