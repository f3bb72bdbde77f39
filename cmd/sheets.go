package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"simulador/internal/config"
	"simulador/internal/logger"
	"simulador/internal/sheets"
	"simulador/pkg/models"
	"simulador/pkg/services"
)

var budgetExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Append all budgets to a Google Sheet",
	Long: `Export every budget of the logged in user to a Google Sheet, one row per
budget. The tab and its header row are created when missing.

Environment variables:
  GOOGLE_SHEET_URL                 Spreadsheet URL (overridden by --sheet)
  GOOGLE_APPLICATION_CREDENTIALS   Service account key file
  GOOGLE_CREDENTIALS               Service account key JSON (wins over the file)`,
	Example: `  simulador budget export --sheet "https://docs.google.com/spreadsheets/d/<id>/edit"
  simulador budget export --tab "Orçamentos 2026"`,
	Args: cobra.NoArgs,
	RunE: runBudgetExport,
}

var productImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create products from the rows of a Google Sheet",
	Long: `Import catalog products from a Google Sheet. The first row is a header and the
columns are: Nome, Código, Custo de aquisição, Preço de venda, Descrição.
Rows without a name are skipped. Amounts may be numbers or "R$ 1.234,56".`,
	Example: `  simulador product import --sheet "https://docs.google.com/spreadsheets/d/<id>/edit"
  simulador product import --tab Estoque --dry-run`,
	Args: cobra.NoArgs,
	RunE: runProductImport,
}

func init() {
	budgetCmd.AddCommand(budgetExportCmd)
	productCmd.AddCommand(productImportCmd)

	budgetExportCmd.Flags().String("sheet", "", "Google Sheets URL (default: GOOGLE_SHEET_URL)")
	budgetExportCmd.Flags().String("tab", sheets.DefaultBudgetSheet, "Sheet tab to append to")

	productImportCmd.Flags().String("sheet", "", "Google Sheets URL (default: GOOGLE_SHEET_URL)")
	productImportCmd.Flags().String("tab", sheets.DefaultProductSheet, "Sheet tab to read from")
	productImportCmd.Flags().Bool("dry-run", false, "Print the parsed products without creating them")
}

// openSheet connects to the spreadsheet named by --sheet or GOOGLE_SHEET_URL.
func openSheet(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) (*sheets.Service, error) {
	sheetURL, _ := cmd.Flags().GetString("sheet")
	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if sheetURL == "" {
		return nil, fmt.Errorf("no spreadsheet given: use --sheet or set GOOGLE_SHEET_URL")
	}

	credentials, err := cfg.GoogleCredentialsJSON()
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, sheetURL, credentials)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Google Sheets service")
		return nil, fmt.Errorf("failed to open Google Sheet: %w", err)
	}
	return svc, nil
}

func runBudgetExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget-export")
	tab, _ := cmd.Flags().GetString("tab")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	sheet, err := openSheet(ctx, cmd, cfg, log)
	if err != nil {
		return err
	}

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	budgets, err := client.ListBudgets(ctx)
	if err != nil {
		return handleAPIError(err, log)
	}

	if err := sheet.ExportBudgets(ctx, budgets, tab); err != nil {
		log.Error().Err(err).Str("tab", tab).Msg("Budget export failed")
		return fmt.Errorf("failed to write to Google Sheet: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d orçamento(s) exportado(s) para %q.\n", len(budgets), tab)
	return nil
}

type importResult struct {
	Name  string `json:"name"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func runProductImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product-import")
	tab, _ := cmd.Flags().GetString("tab")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	sheet, err := openSheet(ctx, cmd, cfg, log)
	if err != nil {
		return err
	}

	products, err := sheet.ReadProducts(ctx, tab)
	if err != nil {
		return fmt.Errorf("failed to read products: %w", err)
	}

	if dryRun {
		return writeOutput(cmd, products, func(w io.Writer) error {
			fmt.Fprintln(w, "NOME\tCÓDIGO\tCUSTO\tPREÇO")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.ReferenceCode, p.AcquisitionCost, p.SalePrice)
			}
			return nil
		}, log)
	}

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	results := importProducts(ctx, client, products, log)

	return writeOutput(cmd, results, func(w io.Writer) error {
		fmt.Fprintln(w, "NOME\tID\tERRO")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.ID, r.Error)
		}
		return nil
	}, log)
}

// importProducts creates each product, carrying on past per-row failures.
// Once ctx is done the remaining rows are reported without a request.
func importProducts(ctx context.Context, creator services.ProductCreator, products []models.ProductInput, log zerolog.Logger) []importResult {
	results := make([]importResult, 0, len(products))
	for _, in := range products {
		if ctx.Err() != nil {
			results = append(results, importResult{Name: in.Name, Error: ctx.Err().Error()})
			continue
		}

		created, err := creator.CreateProduct(ctx, in)
		if err != nil {
			log.Warn().Err(err).Str("product", in.Name).Msg("Failed to import product")
			results = append(results, importResult{Name: in.Name, Error: handleAPIError(err, log).Error()})
			continue
		}
		results = append(results, importResult{Name: in.Name, ID: created.ID})
	}

	log.Info().
		Int("rows", len(products)).
		Msg("Product import finished")

	return results
}
