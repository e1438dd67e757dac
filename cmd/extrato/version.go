package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("extrato %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
