package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"simulador/internal/api"
	"simulador/internal/budget"
	"simulador/internal/logger"
	"simulador/pkg/models"
	"simulador/pkg/money"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Compose, simulate and manage budgets",
	Long: `Budgets (orçamentos) combine product items, additional costs and services.

The total cost is the item subtotal plus fixed costs, percentage costs applied
to the item subtotal, and selected services. The suggested sale price is the
total cost plus 20%. Profitability is calculated by the API from the full
composition and classified as:

  below 0%     Prejuízo
  0% to 10%    Baixa
  10% to 20%   Boa
  20% or more  Excelente

A draft file is JSON with "items", "other_costs", "services" and an optional
"total_value":

  {
    "items": [{"product_id": "p1", "product_name": "Widget", "unit_price": 100, "quantity": 2}],
    "other_costs": [{"description": "Frete", "amount": 20, "cost_type": "fixed"}],
    "services": [{"id": "s1", "name": "Instalação", "cost": 50}]
  }`,
}

var budgetSimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compute totals, suggested price and profitability of a draft",
	Example: `  # Use the suggested price as the sale value
  simulador budget simulate --file draft.json

  # Simulate a specific sale value
  simulador budget simulate --file draft.json --total-value "350,00"

  # Totals only, without calling the API
  simulador budget simulate --file draft.json --offline`,
	Args: cobra.NoArgs,
	RunE: runBudgetSimulate,
}

var budgetCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a budget from a draft file",
	Example: `  simulador budget create --file draft.json --customer c1
  simulador budget create --file draft.json --customer c1 --status pending --validity-date 2026-12-31`,
	Args: cobra.NoArgs,
	RunE: runBudgetCreate,
}

var budgetUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a budget with the content of a draft file",
	Long: `Replace the items, costs, services and header of an existing budget. The
profitability is recalculated from the draft before saving.`,
	Example: `  simulador budget update b1 --file draft.json --customer c1 --status approved`,
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetUpdate,
}

func init() {
	rootCmd.AddCommand(budgetCmd)

	budgetCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List budgets", Args: cobra.NoArgs, RunE: runBudgetList},
		&cobra.Command{Use: "get <id>", Short: "Show a budget", Args: cobra.ExactArgs(1), RunE: runBudgetGet},
		&cobra.Command{Use: "delete <id>", Short: "Delete a budget", Args: cobra.ExactArgs(1), RunE: runBudgetDelete},
		budgetSimulateCmd,
		budgetCreateCmd,
		budgetUpdateCmd,
	)

	for _, c := range []*cobra.Command{budgetSimulateCmd, budgetCreateCmd, budgetUpdateCmd} {
		c.Flags().StringP("file", "f", "", "Draft JSON file (- for stdin)")
		c.Flags().String("total-value", "", "Sale value (R$); defaults to the draft value or the suggested price")
		_ = c.MarkFlagRequired("file")
	}
	budgetSimulateCmd.Flags().Bool("offline", false, "Skip the profitability request")

	for _, c := range []*cobra.Command{budgetCreateCmd, budgetUpdateCmd} {
		c.Flags().String("customer", "", "Customer ID")
		c.Flags().String("issue-date", "", "Issue date, YYYY-MM-DD (default: today)")
		c.Flags().String("validity-date", "", "Validity date, YYYY-MM-DD (default: issue date plus BUDGET_VALIDITY_DAYS)")
		c.Flags().String("status", string(models.BudgetStatusDraft), "Status: draft, pending or approved")
		c.Flags().String("notes", "", "Notes")
		_ = c.MarkFlagRequired("customer")
	}
}

func runBudgetList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		budgets, err := client.ListBudgets(ctx)
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, budgets, func(w io.Writer) error {
			fmt.Fprintln(w, "ID\tCLIENTE\tEMISSÃO\tVALIDADE\tVALOR\tSTATUS")
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					b.ID, customerName(b), b.IssueDate, b.ValidityDate, b.TotalValue, b.Status)
			}
			return nil
		}, log)
	})
}

func runBudgetGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		b, err := client.GetBudget(ctx, args[0])
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, b, func(w io.Writer) error {
			fmt.Fprintf(w, "Orçamento:\t%s\n", b.ID)
			fmt.Fprintf(w, "Cliente:\t%s\n", customerName(*b))
			fmt.Fprintf(w, "Emissão:\t%s\n", b.IssueDate)
			fmt.Fprintf(w, "Validade:\t%s\n", b.ValidityDate)
			fmt.Fprintf(w, "Status:\t%s\n", b.Status)
			fmt.Fprintf(w, "Valor total:\t%s\n\n", b.TotalValue)
			fmt.Fprintln(w, "PRODUTO\tQTD\tUNITÁRIO\tDESCONTO\tTOTAL")
			for _, item := range b.Items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					item.ProductID, item.Quantity, item.UnitPrice, item.Discount, item.TotalPrice)
			}
			return nil
		}, log)
	})
}

func runBudgetDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		if err := client.DeleteBudget(ctx, args[0]); err != nil {
			return handleAPIError(err, log)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Orçamento %s excluído.\n", args[0])
		return nil
	})
}

func customerName(b models.Budget) string {
	if b.Customer != nil && b.Customer.Name != "" {
		return b.Customer.Name
	}
	return b.CustomerID
}

func runBudgetSimulate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget-simulate")

	offline, _ := cmd.Flags().GetBool("offline")

	draft, err := loadDraft(cmd, log)
	if err != nil {
		return err
	}

	if offline {
		session := budget.NewSession(nil, budget.Options{Debounce: -1})
		defer session.Close()
		if err := applyDraft(cmd, session, draft); err != nil {
			return err
		}
		return outputSnapshot(cmd, session.Snapshot(), log)
	}

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		session := budget.NewSession(client, budget.Options{
			Debounce: -1,
			Notifier: newTerminal(cmd.ErrOrStderr()),
		})
		defer session.Close()

		if err := applyDraft(cmd, session, draft); err != nil {
			return err
		}
		if _, err := session.Recalculate(ctx); err != nil {
			return handleAPIError(err, log)
		}
		return outputSnapshot(cmd, session.Snapshot(), log)
	})
}

func runBudgetCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget-create")

	return runBudgetSave(cmd, log, func(ctx context.Context, client *api.Client, session *budget.Session, opts budget.SubmitOptions) (*models.Budget, error) {
		return session.Submit(ctx, client, opts)
	}, "criado")
}

func runBudgetUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget-update")
	id := args[0]

	return runBudgetSave(cmd, log, func(ctx context.Context, client *api.Client, session *budget.Session, opts budget.SubmitOptions) (*models.Budget, error) {
		in, err := session.BuildInput(opts)
		if err != nil {
			return nil, err
		}
		return client.UpdateBudget(ctx, id, in)
	}, "atualizado")
}

type saveFunc func(ctx context.Context, client *api.Client, session *budget.Session, opts budget.SubmitOptions) (*models.Budget, error)

// runBudgetSave loads the draft into a session, evaluates its profitability
// and hands it to save.
func runBudgetSave(cmd *cobra.Command, log zerolog.Logger, save saveFunc, verb string) error {
	draft, err := loadDraft(cmd, log)
	if err != nil {
		return err
	}
	opts, err := submitOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	session := budget.NewSession(client, budget.Options{
		Debounce:     -1,
		Notifier:     newTerminal(cmd.ErrOrStderr()),
		ValidityDays: cfg.BudgetValidityDays,
	})
	defer session.Close()

	if err := applyDraft(cmd, session, draft); err != nil {
		return err
	}

	// A failed evaluation is already reported; the budget is saved with zero profitability.
	if _, err := session.Recalculate(ctx); err != nil {
		log.Warn().Err(err).Msg("Submitting without profitability")
	}

	saved, err := save(ctx, client, session, opts)
	if err != nil {
		return handleAPIError(err, log)
	}

	log.Info().
		Str("budget_id", saved.ID).
		Msg("Budget saved")
	return writeOutput(cmd, saved, func(w io.Writer) error {
		fmt.Fprintf(w, "Orçamento %s %s para %s: %s (%s).\n",
			saved.ID, verb, customerName(*saved), saved.TotalValue, saved.Status)
		return nil
	}, log)
}

func loadDraft(cmd *cobra.Command, log zerolog.Logger) (budget.Draft, error) {
	path, _ := cmd.Flags().GetString("file")

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("file", path).
			Msg("Failed to read draft")
		return budget.Draft{}, fmt.Errorf("failed to read draft file: %w", err)
	}

	var draft budget.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		log.Error().
			Err(err).
			Str("file", path).
			Msg("Draft is not valid JSON")
		return budget.Draft{}, fmt.Errorf("invalid draft file %s: %w", path, err)
	}
	return draft, nil
}

// applyDraft loads the draft and applies --total-value.
func applyDraft(cmd *cobra.Command, session *budget.Session, draft budget.Draft) error {
	if err := session.Load(draft); err != nil {
		return handleAPIError(err, logger.WithComponent("budget"))
	}
	if cmd.Flags().Changed("total-value") {
		raw, _ := cmd.Flags().GetString("total-value")
		session.SetTotalValue(money.Parse(raw))
	}
	return nil
}

func submitOptions(cmd *cobra.Command) (budget.SubmitOptions, error) {
	opts := budget.SubmitOptions{}
	opts.CustomerID, _ = cmd.Flags().GetString("customer")
	opts.Notes, _ = cmd.Flags().GetString("notes")
	status, _ := cmd.Flags().GetString("status")
	opts.Status = models.BudgetStatus(status)

	var err error
	if opts.IssueDate, err = dateFlag(cmd, "issue-date"); err != nil {
		return opts, err
	}
	if opts.ValidityDate, err = dateFlag(cmd, "validity-date"); err != nil {
		return opts, err
	}
	return opts, nil
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD, got %q", name, raw)
	}
	return t, nil
}

func outputSnapshot(cmd *cobra.Command, snap budget.Snapshot, log zerolog.Logger) error {
	return writeOutput(cmd, snap, func(w io.Writer) error {
		return renderSnapshot(w, snap)
	}, log)
}
