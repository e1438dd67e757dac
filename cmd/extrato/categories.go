package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvbarbosa/extrato/internal/cli"
	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Gerencia as categorias",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista as categorias cadastradas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return common.NewUserError("falha ao carregar categorias", err)
			}
			if len(categories) == 0 {
				fmt.Println(cli.SubtleStyle.Render("nenhuma categoria cadastrada"))
				return nil
			}

			fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf(
				"%-25s %-25s %-10s %s", "id", "nome", "direção", "ativa")))
			for _, c := range categories {
				ativa := "sim"
				if !c.Active {
					ativa = "não"
				}
				fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf(
					"%-25s %-25s %-10s %s", c.ID, c.Name, c.Direction, ativa)))
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Cadastra uma nova categoria",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			name, _ := cmd.Flags().GetString("name")
			direction, _ := cmd.Flags().GetString("direction")

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category := &model.Category{
				ID:        id,
				Name:      name,
				Direction: model.Direction(direction),
				Active:    true,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return common.NewUserError("falha ao criar categoria", err)
			}

			fmt.Println(cli.SuccessStyle.Render("categoria criada: " + category.ID))
			return nil
		},
	}

	cmd.Flags().String("id", "", "identificador estável da categoria")
	cmd.Flags().String("name", "", "nome de exibição")
	cmd.Flags().String("direction", "despesa", "direção (receita ou despesa)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
