package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"newhill-spices/internal/repository"
	"newhill-spices/internal/service"
	"newhill-spices/pkg/clock"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const cliActor = "newhillctl"

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect or change exchange rates",
	Long: `Rates are stored as INR per unit of foreign currency.

Subcommands:
  list     - Show stored rates
  set      - Set one rate
  refresh  - Reset every rate to the reference values`,
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show stored rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := currencyService()
		if err != nil {
			return err
		}
		views, err := rates.ListRates()
		if err != nil {
			return err
		}
		printRates(cmd.OutOrStdout(), views)
		return nil
	},
}

var ratesSetCmd = &cobra.Command{
	Use:   "set CODE RATE",
	Short: "Set how many INR one unit of CODE is worth",
	Long: `Examples:
  newhillctl rates set AED 22.75`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid rate %q", args[1])
		}
		rates, err := currencyService()
		if err != nil {
			return err
		}
		saved, err := rates.SetRate(strings.ToUpper(args[0]), rate, service.RequestMeta{UserName: cliActor})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ 1 %s = %s INR\n", saved.CurrencyCode, saved.RateToINR.String())
		return nil
	},
}

var ratesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reset every rate to the reference values",
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := currencyService()
		if err != nil {
			return err
		}
		saved, err := rates.RefreshRates(service.RequestMeta{UserName: cliActor})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Refreshed %d rates\n", len(saved))
		return nil
	},
}

func currencyService() (service.CurrencyService, error) {
	_, db, err := connect()
	if err != nil {
		return nil, err
	}
	audit := service.NewAuditService(repository.NewAuditRepo(db), nil, clock.NewRealClock())
	return service.NewCurrencyService(repository.NewCurrencyRepo(db), audit), nil
}

func printRates(out io.Writer, views []service.RateView) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tINR PER UNIT\tUPDATED")
	for _, v := range views {
		updated := "-"
		if v.UpdatedAt != nil {
			updated = v.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Code, v.Name, v.RateToINR.String(), updated)
	}
	w.Flush()
}

func init() {
	ratesCmd.AddCommand(ratesListCmd, ratesSetCmd, ratesRefreshCmd)
	rootCmd.AddCommand(ratesCmd)
}
