package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harsshhit/vendors/internal/modules/vendor"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all vendors with the sample data set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close(ctx)

			seeded, err := vendor.NewService(a.vendors).Seed(ctx)
			if err != nil {
				return err
			}
			for _, v := range seeded {
				a.log.Info("seeded vendor", zap.String("name", v.Name), zap.String("bank", v.BankName))
			}
			a.log.Info("seed complete", zap.Int("count", len(seeded)))
			return nil
		},
	}
}
