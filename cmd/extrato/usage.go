package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvbarbosa/extrato/internal/cli"
	"github.com/mvbarbosa/extrato/internal/common"
)

func usageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Mostra o gasto de AI do mês corrente",
		RunE:  runUsage,
	}
}

func runUsage(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	now := time.Now().UTC()
	records, err := store.GetUsage(ctx, now.Year(), now.Month())
	if err != nil {
		return common.NewUserError("falha ao carregar uso de AI", err)
	}

	var tokens int
	var cost float64
	for _, r := range records {
		tokens += r.TokensTotal
		cost += r.CostUSD
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Uso de AI em %s", now.Format("2006-01"))))
	fmt.Printf("chamadas: %d  tokens: %d  custo: US$ %.4f\n", len(records), tokens, cost)

	if limit := viper.GetFloat64("ai.monthly_budget_usd"); limit > 0 {
		pct := cost / limit * 100
		line := fmt.Sprintf("orçamento: US$ %.2f (%.1f%% usado)", limit, pct)
		if pct >= 80 {
			fmt.Println(cli.WarningStyle.Render(line))
		} else {
			fmt.Println(cli.SubtleStyle.Render(line))
		}
	}

	return nil
}
