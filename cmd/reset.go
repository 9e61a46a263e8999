package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Sign out and clear data cached on this device",
	Long:  "Sign out and clear the device-local cache. Accounts, saved maps and recorded LLM events are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		sess := e.session()
		if u := sess.Current(); u != nil {
			sess.SignOut()
			fmt.Printf("Signed out %s.\n", u.Email)
		}
		if err := e.local.Clear(); err != nil {
			return fmt.Errorf("clear local cache: %w", err)
		}
		fmt.Println("Local cache cleared:", e.local.Path())
		return nil
	},
}
