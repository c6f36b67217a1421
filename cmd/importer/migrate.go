package main

import (
	"fmt"

	"github.com/fekuna/omnipos-inventory-loader/internal/database"
	"github.com/fekuna/omnipos-inventory-loader/internal/ledger/repository"
	"github.com/fekuna/omnipos-inventory-loader/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and the cash account",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := database.Migrate(ctx, a.db); err != nil {
				return err
			}
			if err := repository.NewPGRepository(a.db, 0).EnsureAccount(ctx, model.CashAccountName); err != nil {
				return fmt.Errorf("create cash account: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Esquema listo (%s)\n", database.Dialect(a.db))
			return nil
		},
	}
}
