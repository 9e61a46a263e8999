package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/optimapped/optimapped/internal/persistence"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List and export saved focus maps",
}

var mapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved focus maps, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.user()
		if err != nil {
			return err
		}
		ms, err := persistence.New(e.docs, e.local, e.log).ListMaps(cmd.Context(), u.UID, limit)
		if err != nil {
			return fmt.Errorf("list maps: %w", err)
		}
		if len(ms) == 0 {
			fmt.Println("No saved maps.")
			return nil
		}

		fmt.Printf("%-36s  %-28s  %5s  %5s  %s\n", "ID", "Name", "Nodes", "Links", "Updated")
		fmt.Println(strings.Repeat("─", 100))
		for _, m := range ms {
			fmt.Printf("%-36s  %-28s  %5d  %5d  %s\n",
				m.ID, truncate(m.Name, 28), len(m.Nodes), len(m.Connections),
				m.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var mapsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Print a saved focus map as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.user()
		if err != nil {
			return err
		}
		m, err := persistence.New(e.docs, e.local, e.log).LoadMap(cmd.Context(), u.UID, args[0])
		if err != nil {
			return fmt.Errorf("load map %s: %w", args[0], err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	},
}

func init() {
	mapsListCmd.Flags().IntP("limit", "n", 20, "Number of maps to show")

	mapsCmd.AddCommand(mapsListCmd)
	mapsCmd.AddCommand(mapsExportCmd)
}
