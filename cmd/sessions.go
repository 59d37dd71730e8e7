package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.Sessions().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %7s  %s\n", "ID", "Updated", "Theta", "Rounds")
		fmt.Println(strings.Repeat("─", 76))
		for _, r := range rows {
			fmt.Printf("%-36s  %-19s  %+7.2f  %d/%d\n",
				r.ID,
				r.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Theta,
				r.RoundsDone,
				r.RoundsTotal,
			)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")
}
