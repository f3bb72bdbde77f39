package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"simulador/internal/logger"
	"simulador/pkg/money"
)

var moneyCmd = &cobra.Command{
	Use:   "money",
	Short: "Format and parse Brazilian currency values",
	Long: `Helpers for the currency notation used across the CLI: "." groups
thousands, "," separates cents and amounts are prefixed with "R$".`,
}

var moneyFormatCmd = &cobra.Command{
	Use:   "format <amount>",
	Short: "Format an amount as R$",
	Example: `  simulador money format 1234.5    # R$ 12.345,00 ("." groups thousands)
  simulador money format 1234,5    # R$ 1.234,50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("money")
		log.Debug().Str("input", args[0]).Msg("Formatting amount")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), money.FormatBRL(money.Parse(args[0])))
		return err
	},
}

var moneyParseCmd = &cobra.Command{
	Use:     "parse <text>",
	Short:   "Read a BRL string as a decimal number",
	Example: `  simulador money parse "R$ 1.234,56"    # 1234.56`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), money.Parse(args[0]).Decimal().StringFixed(2))
		return err
	},
}

var moneyMaskCmd = &cobra.Command{
	Use:     "mask <digits>",
	Short:   "Apply the typing mask: digits are read as cents",
	Example: `  simulador money mask 123456    # R$ 1.234,56`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), money.Mask(args[0]))
		return err
	},
}

func init() {
	rootCmd.AddCommand(moneyCmd)
	moneyCmd.AddCommand(moneyFormatCmd, moneyParseCmd, moneyMaskCmd)
}
