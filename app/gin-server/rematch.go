package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/yoockh/gigmatch/internal/workers"
)

var rematchTimeout time.Duration

var rematchCmd = &cobra.Command{
	Use:   "rematch",
	Short: "Recompute matches for every active job once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCore()
		if err != nil {
			return err
		}
		defer c.close()

		sweeper := &workers.RematchSweeper{
			Engine:  c.engine,
			Timeout: rematchTimeout,
			Logger:  c.log,
		}
		res, err := sweeper.RunOnce(context.Background())
		if err != nil {
			return err
		}
		cmd.Printf("scored=%d upserted=%d deleted=%d\n", res.Scored, res.Upserted, res.Deleted)
		return nil
	},
}

func init() {
	rematchCmd.Flags().DurationVar(&rematchTimeout, "timeout", 30*time.Minute, "abort the sweep after this long")
}
