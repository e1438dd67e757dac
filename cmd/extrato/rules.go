package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvbarbosa/extrato/internal/cli"
	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Gerencia as regras de classificação",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesRemoveCmd())
	cmd.AddCommand(rulesToggleCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista todas as regras em ordem de avaliação",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			allRules, err := store.GetRules(ctx, false)
			if err != nil {
				return common.NewUserError("falha ao carregar regras", err)
			}
			if len(allRules) == 0 {
				fmt.Println(cli.SubtleStyle.Render("nenhuma regra cadastrada"))
				return nil
			}

			fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf(
				"%-6s %-10s %-30s %-20s %-6s %s", "ordem", "tipo", "expressão", "categoria", "ativa", "id")))
			for _, r := range allRules {
				ativa := "sim"
				if !r.Active {
					ativa = "não"
				}
				fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf(
					"%-6d %-10s %-30s %-20s %-6s %s",
					r.Ordem, r.Kind, truncate(r.Expression, 30), r.CategoryID, ativa, r.ID)))
			}
			return nil
		},
	}
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Cadastra uma nova regra",
		Long: `Cadastra uma regra de classificação.

Exemplos:
  extrato rules add --kind contains --expression UBER --category cat-transporte
  extrato rules add --kind regex --expression 'pix\s+enviado' --category cat-pix --ordem 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			expression, _ := cmd.Flags().GetString("expression")
			categoryID, _ := cmd.Flags().GetString("category")
			ordem, _ := cmd.Flags().GetInt("ordem")
			tags, _ := cmd.Flags().GetStringSlice("tags")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.GetCategoryByID(ctx, categoryID); err != nil {
				return common.NewUserError(fmt.Sprintf("categoria %s não existe", categoryID), err)
			}

			rule := &model.ClassificationRule{
				Kind:       model.RuleKind(kind),
				Expression: expression,
				CategoryID: categoryID,
				Ordem:      ordem,
				Tags:       tags,
				Active:     true,
			}
			if err := store.CreateRule(ctx, rule); err != nil {
				return common.NewUserError("falha ao criar regra", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"regra criada: #%d %s('%s') → %s", rule.Ordem, rule.Kind, rule.Expression, rule.CategoryID)))
			return nil
		},
	}

	cmd.Flags().String("kind", "contains", "tipo da regra (regex, contains, starts, ends)")
	cmd.Flags().String("expression", "", "expressão a casar com a descrição")
	cmd.Flags().String("category", "", "categoria de destino")
	cmd.Flags().Int("ordem", 0, "prioridade (0 = próxima livre)")
	cmd.Flags().StringSlice("tags", nil, "tags livres")
	_ = cmd.MarkFlagRequired("expression")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func rulesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove uma regra",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, args[0]); err != nil {
				return common.NewUserError("falha ao remover regra", err)
			}
			fmt.Println(cli.SuccessStyle.Render("regra removida"))
			return nil
		},
	}
}

func rulesToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Ativa ou desativa uma regra",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := store.GetRuleByID(ctx, args[0])
			if err != nil {
				return common.NewUserError("regra não encontrada", err)
			}
			rule.Active = !rule.Active
			if err := store.UpdateRule(ctx, rule); err != nil {
				return common.NewUserError("falha ao atualizar regra", err)
			}

			estado := "desativada"
			if rule.Active {
				estado = "ativada"
			}
			fmt.Println(cli.SuccessStyle.Render("regra " + estado))
			return nil
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-1]) + "…"
}
