package main

import (
	"fmt"

	ledgerRepoPkg "github.com/fekuna/omnipos-inventory-loader/internal/ledger/repository"
	ledgerUCPkg "github.com/fekuna/omnipos-inventory-loader/internal/ledger/usecase"
	prodRepoPkg "github.com/fekuna/omnipos-inventory-loader/internal/product/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSummaryCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print cash, debts and inventory totals",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer a.Close()

			uc := ledgerUCPkg.NewLedgerUseCase(
				ledgerRepoPkg.NewPGRepository(a.db, 0),
				prodRepoPkg.NewPGRepository(a.db, 0),
				a.log,
			)
			s, err := uc.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.String())
			return nil
		},
	}
}
