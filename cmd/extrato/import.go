package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvbarbosa/extrato/internal/bank"
	"github.com/mvbarbosa/extrato/internal/cli"
	"github.com/mvbarbosa/extrato/internal/common"
	"github.com/mvbarbosa/extrato/internal/dedupe"
	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/statement"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <arquivo>",
		Short: "Importa um extrato CSV ou OFX para a conta informada",
		Long: `Importa um arquivo de extrato bancário. O formato e o banco são detectados
automaticamente pelo conteúdo; use --profile para forçar um perfil.

Exemplos:
  extrato import ~/Downloads/extrato_bradesco.csv --account conta-corrente
  extrato import fatura.ofx --account cartao --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("account", "", "identificador da conta de destino")
	cmd.Flags().String("profile", "", "força um perfil de banco (ex: nubank, bradesco)")
	cmd.Flags().BoolP("dry-run", "d", false, "analisa o arquivo sem gravar nada")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	accountID, _ := cmd.Flags().GetString("account")
	profileID, _ := cmd.Flags().GetString("profile")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("não foi possível ler %s", filePath), err)
	}
	content := bank.Decode(raw)

	var profile bank.Profile
	if profileID != "" {
		var ok bool
		profile, ok = bank.ProfileByID(profileID)
		if !ok {
			return common.NewUserError(fmt.Sprintf("perfil desconhecido: %s", profileID), nil)
		}
	} else {
		profile = bank.Detect(content, filepath.Base(filePath))
	}

	fmt.Println(cli.TitleStyle.Render("Importando " + filepath.Base(filePath)))
	fmt.Println(cli.SubtleStyle.Render("perfil: " + profile.DisplayName))

	result := statement.Parse(content, profile)
	if result.Fatal() {
		return common.NewUserError(
			fmt.Sprintf("falha ao interpretar o arquivo: %s", strings.Join(result.Errors, "; ")),
			common.ErrUnparseableFile)
	}

	bar := progressbar.Default(int64(len(result.Transactions)), "preparando transações")
	stored := make([]model.StoredTransaction, 0, len(result.Transactions))
	for _, txn := range result.Transactions {
		stored = append(stored, model.StoredTransaction{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			DedupKey:    dedupe.Key(accountID, txn.ISODate, txn.Description, txn.SignedAmount()),
			ISODate:     txn.ISODate,
			Description: txn.Description,
			Document:    txn.Document,
			Amount:      txn.Amount,
			Kind:        txn.Kind,
			Source:      model.SourceNone,
		})
		_ = bar.Add(1)
	}

	if dryRun {
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
			"dry-run: %d transações válidas, %d linhas ignoradas", len(stored), len(result.Errors))))
		printRowErrors(result.Errors)
		return nil
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := store.SaveTransactions(ctx, stored)
	if err != nil {
		return common.NewUserError("falha ao gravar transações", err)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
		"importadas: %d  duplicadas: %d  ignoradas: %d",
		stats.Imported, stats.Duplicates, len(result.Errors))))
	printRowErrors(result.Errors)

	return nil
}

func printRowErrors(errs []string) {
	for _, e := range errs {
		fmt.Println(cli.WarningStyle.Render("aviso: " + e))
	}
}
