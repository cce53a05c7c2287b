package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal/server"
)

func newServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for the browser front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			addr := app.Config.Server.Addr
			srv := server.New(app.Session, app.Config.Translation.Backend, app.Logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			return srv.Start(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&flags.Addr, "addr", "", "Listen address (default :8080)")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
