package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/catalog"
	"github.com/anvil-platform/moneta/internal/discovery"
)

var (
	listOutput string
	listTarget string
)

type providerRow struct {
	AmountType           string       `json:"amountType"`
	Default              bool         `json:"default,omitempty"`
	Provider             string       `json:"provider,omitempty"`
	Priority             *int         `json:"priority,omitempty"`
	Version              string       `json:"version,omitempty"`
	QueryInclusionPolicy string       `json:"queryInclusionPolicy,omitempty"`
	MaximalContext       *contextView `json:"maximalContext,omitempty"`
	ShadowedBy           string       `json:"shadowedBy,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered amount types",
	Long: `List the amount types in the catalog.

Without --target the catalog is built locally from the configured providers
and shadowed registrations are listed too.

Examples:
  moneta list
  moneta list --providers-dir ./providers -o yaml
  moneta list --target localhost:9090 -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(listOutput); err != nil {
			return err
		}

		var rows []providerRow
		if listTarget == "" {
			svc := buildService(cfg)
			cat, err := svc.Reload(cmd.Context())
			if err != nil {
				return err
			}
			def, _ := svc.Resolver().DefaultAmountType()
			rows = catalogRows(cat, def)
		} else {
			view, closeView, err := openView(cmd.Context(), listTarget)
			if err != nil {
				return err
			}
			defer closeView()

			types, err := view.AmountTypes(cmd.Context())
			if err != nil {
				return err
			}
			def, _ := view.DefaultAmountType(cmd.Context())
			for _, t := range types {
				row := providerRow{AmountType: string(t), Default: t == def}
				if info, err := view.Factory(cmd.Context(), t); err == nil {
					maximal := newContextView(info.MaximalContext)
					row.MaximalContext = &maximal
				}
				rows = append(rows, row)
			}
		}

		out := cmd.OutOrStdout()
		if ok, err := writeStructured(out, listOutput, rows); ok {
			return err
		}

		tw := newTable(out)
		fmt.Fprintln(tw, "TYPE\tDEFAULT\tPROVIDER\tPRIORITY\tVERSION\tPOLICY\tMAXIMAL CONTEXT\tSHADOWED BY")
		for _, r := range rows {
			priority := ""
			if r.Priority != nil {
				priority = strconv.Itoa(*r.Priority)
			}
			maximal := ""
			if r.MaximalContext != nil {
				maximal = r.MaximalContext.String()
			}
			def := ""
			if r.Default {
				def = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.AmountType, def, r.Provider, priority, r.Version, r.QueryInclusionPolicy, maximal, r.ShadowedBy)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", outputText, "output format: text, json or yaml")
	listCmd.Flags().StringVar(&listTarget, "target", "", "query a running registry at host:port instead of loading locally")
	rootCmd.AddCommand(listCmd)
}

// catalogRows lists the winners of cat in discovery order followed by the
// shadowed registrations.
func catalogRows(cat *catalog.Catalog, def amount.Type) []providerRow {
	rows := make([]providerRow, 0, cat.Len()+len(cat.Shadowed()))
	for _, p := range cat.Providers() {
		rows = append(rows, providerRowFor(p, p.AmountType() == def, ""))
	}
	for _, s := range cat.Shadowed() {
		rows = append(rows, providerRowFor(s.Loser, false, amount.NameOf(s.Winner)))
	}
	return rows
}

func providerRowFor(p amount.Provider, isDefault bool, shadowedBy string) providerRow {
	priority := amount.PriorityOf(p)
	maximal := newContextView(p.MaximalContext())
	row := providerRow{
		AmountType:           string(p.AmountType()),
		Default:              isDefault,
		Provider:             amount.NameOf(p),
		Priority:             &priority,
		QueryInclusionPolicy: p.QueryInclusionPolicy().String(),
		MaximalContext:       &maximal,
		ShadowedBy:           shadowedBy,
	}
	if v, ok := p.(discovery.Versioned); ok {
		row.Version = v.Version()
	}
	return row
}
