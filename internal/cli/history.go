package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"foldersearch/internal/domain"
	"foldersearch/internal/history"
)

func newHistoryCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recorded searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}

			store, err := history.NewStore(s.cfg.History.DBPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			output := cmd.OutOrStdout()

			if v.GetBool("clear") {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(output, "Deleted %d runs from %s\n", n, store.Path())
				return nil
			}

			limit := s.cfg.History.Limit
			if v.IsSet("limit") {
				limit = v.GetInt("limit")
			}
			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(output, "No searches recorded yet")
				return nil
			}

			for _, e := range entries {
				stateColor := color.New(color.FgGreen)
				switch e.State {
				case domain.RunCancelled:
					stateColor = color.New(color.FgYellow)
				case domain.RunFailed:
					stateColor = color.New(color.FgRed)
				}

				fmt.Fprintf(output, "%s  %s  %-8s  %4d results  %q in %s\n",
					e.FinishedAt.Format("2006-01-02 15:04:05"),
					stateColor.Sprintf("%-9s", e.State),
					e.Mode,
					e.Results,
					e.Query,
					e.StartPath,
				)
				if e.Error != "" {
					fmt.Fprintf(output, "    %s\n", e.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "show at most this many runs (default from config, 0 shows all)")
	cmd.Flags().Bool("clear", false, "delete every recorded run")

	return cmd
}
