package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/thetaquiz/internal/qbreader"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List QBReader categories and subcategories",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range qbreader.CategoryNames() {
			fmt.Println(name)
			if subs := qbreader.Categories[name]; len(subs) > 0 {
				fmt.Println("  " + strings.Join(subs, ", "))
			}
		}
	},
}
