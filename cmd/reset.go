package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Sessions().DeleteAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("reset sessions: %w", err)
		}
		fmt.Printf("Deleted %d session(s).\n", n)
		return nil
	},
}
