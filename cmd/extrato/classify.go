package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvbarbosa/extrato/internal/cli"
	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/engine"
	"github.com/mvbarbosa/extrato/internal/rules"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classifica transações ainda sem categoria",
		Long: `Roda o pipeline de classificação sobre as transações sem categoria:
primeiro as regras cadastradas, depois o fallback de AI (quando configurado)
para o que as regras não alcançarem.`,
		RunE: runClassify,
	}

	cmd.Flags().String("account", "", "limita a uma conta")
	cmd.Flags().Bool("no-ai", false, "usa apenas regras, sem chamadas de AI")
	cmd.Flags().Int("workers", 0, "chamadas de AI simultâneas (padrão 5)")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	accountID, _ := cmd.Flags().GetString("account")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	workers, _ := cmd.Flags().GetInt("workers")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.GetUnclassifiedTransactions(ctx, accountID)
	if err != nil {
		return common.NewUserError("falha ao carregar transações", err)
	}
	if len(txns) == 0 {
		fmt.Println(cli.SuccessStyle.Render("nada a classificar"))
		return nil
	}

	allRules, err := store.GetRules(ctx, true)
	if err != nil {
		return common.NewUserError("falha ao carregar regras", err)
	}
	categories, err := store.GetCategories(ctx)
	if err != nil {
		return common.NewUserError("falha ao carregar categorias", err)
	}

	var classifier engine.SuggestionClassifier
	if !noAI {
		aiClassifier, initErr := initClassifier(store)
		if initErr != nil {
			return initErr
		}
		if aiClassifier != nil {
			defer aiClassifier.Close()
			classifier = aiClassifier
		}
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Classificando %d transações", len(txns))))

	orchestrator := engine.New(rules.NewEngine(allRules), classifier, engine.Config{MaxWorkers: workers})
	outcomes, summary := orchestrator.ClassifyBatch(ctx, txns, categories)

	bar := progressbar.Default(int64(len(outcomes)), "gravando resultados")
	for _, outcome := range outcomes {
		_ = bar.Add(1)
		if !outcome.Result.Classified() {
			continue
		}
		err := store.UpdateTransactionCategory(ctx,
			outcome.Transaction.ID,
			outcome.Result.CategoryID,
			outcome.Result.Source,
			outcome.Result.Score)
		if err != nil {
			return common.NewUserError("falha ao gravar classificação", err)
		}
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
		"regras: %d  ai: %d  cache: %d  falhas: %d  sem categoria: %d  chamadas de API: %d",
		summary.ByRule, summary.ByAI, summary.ByCache,
		summary.Failed, summary.Unclassified, summary.APICalls)))

	return nil
}
