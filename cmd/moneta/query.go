package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvil-platform/moneta/internal/amount"
)

var (
	queryTarget     string
	queryOutput     string
	queryAmountType string
	queryPrecision  int
	queryMaxScale   int
	queryFlavor     string
	queryRounding   string
)

type queryResult struct {
	Required   *contextView `json:"required,omitempty"`
	AmountType string       `json:"amountType"`
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Resolve the amount type for a required context",
	Long: `Resolve the amount type that satisfies a required monetary context.

With no requirement flags the default amount type is returned.

Examples:
  moneta query --precision 10 --max-scale 2 --flavor FIXED_SCALE
  moneta query --amount-type moneta.FastMoney --precision 12 --max-scale 4
  moneta query --target localhost:9090 --precision 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(queryOutput); err != nil {
			return err
		}
		required, err := requiredFromFlags(cmd)
		if err != nil {
			return err
		}

		view, closeView, err := openView(cmd.Context(), queryTarget)
		if err != nil {
			return err
		}
		defer closeView()

		t, err := view.QueryAmountType(cmd.Context(), required)
		if err != nil {
			return err
		}

		res := queryResult{AmountType: string(t)}
		if required != nil {
			rc := newContextView(*required)
			res.Required = &rc
		}
		if ok, err := writeStructured(cmd.OutOrStdout(), queryOutput, res); ok {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), t)
		return err
	},
}

// requiredFromFlags builds the required context from the flags that were
// set. It returns nil when none were.
func requiredFromFlags(cmd *cobra.Command) (*amount.Context, error) {
	changed := false
	for _, name := range []string{"amount-type", "precision", "max-scale", "flavor", "rounding-mode"} {
		if cmd.Flags().Changed(name) {
			changed = true
		}
	}
	if !changed {
		return nil, nil
	}

	if queryPrecision < 0 {
		return nil, fmt.Errorf("--precision must not be negative")
	}
	if queryMaxScale < amount.UnboundedScale {
		return nil, fmt.Errorf("--max-scale must be -1 or greater")
	}
	flavor, err := amount.ParseFlavor(queryFlavor)
	if err != nil {
		return nil, err
	}
	return &amount.Context{
		AmountType:   amount.Type(queryAmountType),
		Precision:    queryPrecision,
		MaxScale:     queryMaxScale,
		Flavor:       flavor,
		RoundingMode: amount.RoundingMode(queryRounding),
	}, nil
}

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the default amount type",
	RunE: func(cmd *cobra.Command, args []string) error {
		view, closeView, err := openView(cmd.Context(), queryTarget)
		if err != nil {
			return err
		}
		defer closeView()

		t, err := view.DefaultAmountType(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), t)
		return err
	},
}

type factoryResult struct {
	AmountType     string      `json:"amountType"`
	Context        contextView `json:"context"`
	MaximalContext contextView `json:"maximalContext"`
}

var factoryCmd = &cobra.Command{
	Use:   "factory TYPE",
	Short: "Show the default and maximal context of an amount type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(queryOutput); err != nil {
			return err
		}
		view, closeView, err := openView(cmd.Context(), queryTarget)
		if err != nil {
			return err
		}
		defer closeView()

		info, err := view.Factory(cmd.Context(), amount.Type(args[0]))
		if err != nil {
			return err
		}
		res := factoryResult{
			AmountType:     string(info.AmountType),
			Context:        newContextView(info.Context),
			MaximalContext: newContextView(info.MaximalContext),
		}
		if ok, err := writeStructured(cmd.OutOrStdout(), queryOutput, res); ok {
			return err
		}

		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintf(tw, "TYPE\t%s\n", res.AmountType)
		fmt.Fprintf(tw, "CONTEXT\t%s\n", res.Context)
		fmt.Fprintf(tw, "MAXIMAL CONTEXT\t%s\n", res.MaximalContext)
		return tw.Flush()
	},
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryAmountType, "amount-type", "", "require this amount type")
	f.IntVar(&queryPrecision, "precision", 0, "required precision, 0 for unbounded")
	f.IntVar(&queryMaxScale, "max-scale", amount.UnboundedScale, "required maximum scale, -1 for unbounded")
	f.StringVar(&queryFlavor, "flavor", "", "required flavor: PRECISION, FIXED_SCALE or PERFORMANCE")
	f.StringVar(&queryRounding, "rounding-mode", "", "rounding mode, informational")

	for _, c := range []*cobra.Command{queryCmd, defaultCmd, factoryCmd} {
		c.Flags().StringVar(&queryTarget, "target", "", "query a running registry at host:port instead of loading locally")
		rootCmd.AddCommand(c)
	}
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", outputText, "output format: text, json or yaml")
	factoryCmd.Flags().StringVarP(&queryOutput, "output", "o", outputText, "output format: text, json or yaml")
}
