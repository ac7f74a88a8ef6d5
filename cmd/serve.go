package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/geoshare/internal/server"
	"github.com/sw33tLie/geoshare/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API:

  GET /                 supported links
  GET /api/convert?q=   convert (format= selects the output)
  GET /api/inputs       supported inputs as JSON
  GET /api/history      past conversions (input=, failed=true, limit=, since=)
  GET /api/stats        conversions per input and domain

Nobody can answer permission prompts, so network access follows the stored permissions
(see geoshare perm). Set server.username and server.password to require basic auth.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		srv := server.New(s.env, s.db, viper.GetString("server.username"), viper.GetString("server.password"))
		srv.Lock = s.lock
		if srv.Username == "" && srv.Password == "" {
			utils.Log.Warn("No server.username/server.password configured, the API is open")
		}
		return srv.Start(viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}
