package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/app"
	"github.com/fhorray/progy/internal/screens/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		sess, err := ws.session()
		if err != nil {
			return err
		}

		return app.Run(dashboard.Deps{
			Engine:   ws.capturingEngine(),
			Session:  sess,
			Locator:  ws.locator,
			Attempts: sess.Attempts,
			Marker:   ws.profile.Marker,
		})
	},
}
