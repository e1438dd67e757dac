package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvbarbosa/extrato/internal/cli"
	"github.com/mvbarbosa/extrato/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe o servidor HTTP de classificação",
		Long: `Expõe a classificação via HTTP para planilhas e integrações locais:
POST /api/classify, GET /api/usage e GET /healthz.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "endereço de escuta")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	classifier, err := initClassifier(store)
	if err != nil {
		return err
	}
	var aiTier server.SuggestionClassifier
	if classifier != nil {
		defer classifier.Close()
		aiTier = classifier
	}

	addr := viper.GetString("server.addr")
	fmt.Println(cli.TitleStyle.Render("extrato ouvindo em " + addr))

	return server.New(store, store, aiTier).ListenAndServe(ctx, addr)
}
