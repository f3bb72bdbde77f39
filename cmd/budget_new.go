package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"simulador/internal/auth"
	"simulador/internal/budget"
	"simulador/internal/logger"
	"simulador/pkg/models"
	"simulador/pkg/money"
	"simulador/pkg/services"
)

var budgetNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Compose a budget interactively",
	Long: `Start an interactive budget session. Every edit updates the total cost and the
suggested price at once; profitability is requested from the API after a
short pause (PROFITABILITY_DEBOUNCE) and printed when it arrives.

Type "help" inside the session for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: runBudgetNew,
}

func init() {
	budgetCmd.AddCommand(budgetNewCmd)
}

const shellHelp = `Comandos:
  item <produto-id> [quantidade] [desconto]   adiciona um produto
  remove-item <item-id>                       remove um item
  cost <fixed|percentage> <valor> <descrição> adiciona um custo adicional
  remove-cost <custo-id>                      remove um custo
  service <serviço-id>                        seleciona um serviço
  remove-service <serviço-id>                 remove um serviço
  value <valor>                               define o valor de venda (0 volta ao sugerido)
  accept                                      usa o preço sugerido como valor de venda
  calc                                        recalcula a lucratividade agora
  show                                        mostra o resumo
  reset                                       limpa o orçamento
  save <cliente-id> [status] [observações]    cria o orçamento
  quit                                        sai
`

// shell drives a budget.Session from text commands.
type shell struct {
	session *budget.Session
	catalog services.Catalog
	creator services.BudgetCreator
	term    *terminal
	log     zerolog.Logger
}

func runBudgetNew(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("budget-new")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	// The session lives until the user quits; --timeout does not apply.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	if !client.Session().LoggedIn() {
		return handleAPIError(fmt.Errorf("budget new: %w", auth.ErrNotLoggedIn), log)
	}

	term := newTerminal(cmd.OutOrStdout())
	session := budget.NewSession(client, budget.Options{
		Debounce:        cfg.ProfitabilityDebounce,
		Notifier:        term,
		OnProfitability: term.profitability,
		ValidityDays:    cfg.BudgetValidityDays,
	})
	defer session.Close()

	sh := &shell{session: session, catalog: client, creator: client, term: term, log: log}
	term.Printf("Novo orçamento. Digite \"help\" para ver os comandos.\n")
	return sh.run(ctx, cmd.InOrStdin())
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	sh.term.Printf("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			quit, err := sh.exec(ctx, line)
			if err != nil {
				sh.report(err)
			}
			if quit {
				return nil
			}
		}
		sh.term.Printf("> ")
	}
	return scanner.Err()
}

// report prints errors the session did not already turn into a notification.
func (sh *shell) report(err error) {
	var validationErr *budget.ValidationError
	if errors.As(err, &validationErr) {
		return
	}
	sh.log.Debug().Err(err).Msg("Shell command failed")
	sh.term.Printf("Erro: %v\n", err)
}

func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "help", "?":
		sh.term.Printf("%s", shellHelp)

	case "item":
		if len(args) < 1 {
			return false, fmt.Errorf("uso: item <produto-id> [quantidade] [desconto]")
		}
		quantity := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return false, fmt.Errorf("quantidade inválida: %q", args[1])
			}
			quantity = n
		}
		var discount money.Cents
		if len(args) > 2 {
			discount = money.Parse(args[2])
		}
		item, err := sh.session.AddProductByID(ctx, sh.catalog, args[0], quantity, discount)
		if err != nil {
			return false, err
		}
		sh.term.Printf("Item %s: %s × %d = %s\n", item.ID, item.ProductName, item.Quantity, item.TotalPrice())
		sh.printTotals()

	case "remove-item":
		if len(args) != 1 || !sh.session.RemoveItem(args[0]) {
			return false, fmt.Errorf("item não encontrado")
		}
		sh.printTotals()

	case "cost":
		if len(args) < 3 {
			return false, fmt.Errorf("uso: cost <fixed|percentage> <valor> <descrição>")
		}
		cost, err := sh.session.AddCost(budget.CostInput{
			CostType:    budget.CostType(args[0]),
			Amount:      money.ParseDecimal(args[1]),
			Description: strings.Join(args[2:], " "),
		})
		if err != nil {
			return false, err
		}
		sh.term.Printf("Custo %s: %s %s\n", cost.ID, cost.Description, costAmount(cost))
		sh.printTotals()

	case "remove-cost":
		if len(args) != 1 || !sh.session.RemoveCost(args[0]) {
			return false, fmt.Errorf("custo não encontrado")
		}
		sh.printTotals()

	case "service":
		if len(args) != 1 {
			return false, fmt.Errorf("uso: service <serviço-id>")
		}
		svc, err := sh.catalog.GetService(ctx, args[0])
		if err != nil {
			return false, fmt.Errorf("serviço %s: %w", args[0], err)
		}
		if !sh.session.SelectService(*svc) {
			sh.term.Printf("Serviço %s já selecionado.\n", svc.Name)
			return false, nil
		}
		sh.printTotals()

	case "remove-service":
		if len(args) != 1 || !sh.session.DeselectService(args[0]) {
			return false, fmt.Errorf("serviço não selecionado")
		}
		sh.printTotals()

	case "value":
		if len(args) != 1 {
			return false, fmt.Errorf("uso: value <valor>")
		}
		sh.session.SetTotalValue(money.Parse(args[0]))
		sh.printTotals()

	case "accept":
		if !sh.session.AcceptSuggestion() {
			return false, fmt.Errorf("não há preço sugerido")
		}
		sh.printTotals()

	case "calc":
		if _, err := sh.session.Refresh(ctx); err != nil && !errors.Is(err, budget.ErrSuperseded) {
			sh.log.Debug().Err(err).Msg("Profitability refresh failed")
		}

	case "show":
		return false, sh.term.summary(sh.session.Snapshot())

	case "reset":
		sh.session.Reset()
		sh.term.Printf("Orçamento limpo.\n")

	case "save":
		if len(args) < 1 {
			return false, fmt.Errorf("uso: save <cliente-id> [status] [observações]")
		}
		opts := budget.SubmitOptions{CustomerID: args[0]}
		if len(args) > 1 {
			opts.Status = models.BudgetStatus(args[1])
		}
		if len(args) > 2 {
			opts.Notes = strings.Join(args[2:], " ")
		}
		created, err := sh.session.Submit(ctx, sh.creator, opts)
		if err != nil {
			// Submit already notified the user.
			sh.log.Debug().Err(err).Msg("Budget submission failed")
			return false, nil
		}
		sh.term.Printf("Orçamento %s (%s).\n", created.ID, created.TotalValue)

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("comando desconhecido %q; digite \"help\"", name)
	}
	return false, nil
}

func (sh *shell) printTotals() {
	snap := sh.session.Snapshot()
	suggested := "—"
	if snap.SuggestedPrice != nil {
		suggested = snap.SuggestedPrice.String()
	}
	sh.term.Printf("Custo total: %s | Sugerido: %s | Valor de venda: %s\n", snap.TotalCost, suggested, snap.TotalValue)
}
