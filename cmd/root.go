package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/geoshare/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	                      _
	  __ _  ___  ___  ___| |__   __ _ _ __ ___
	 / _' |/ _ \/ _ \/ __| '_ \ / _' | '__/ _ \
	| (_| |  __/ (_) \__ \ | | | (_| | | |  __/
	 \__, |\___|\___/|___/_| |_|\__,_|_|  \___|
	 |___/

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geoshare",
	Short: "Turn shared map links into coordinates.",
	Long: LOGO + `geoshare reads links shared from Google Maps, Apple Maps, OpenStreetMap, Waze and other map services,
extracts the location and prints it as a geo: URI, a link for another map service, GPX or JSON.

Short links and links without coordinates need network access, which geoshare asks for first.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geoshare.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite DB file (default: ~/.config/geoshare/geoshare.sqlite)")
	rootCmd.PersistentFlags().Bool("no-history", false, "Do not use the database: permissions are kept in memory and nothing is recorded")

	viper.BindPFlag("network.proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("db"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Defaults are set first so a newly created config file lists every key.
	viper.SetDefault("network.timeout", "15s")
	viper.SetDefault("network.retries", 1)
	viper.SetDefault("network.user_agent", "")
	viper.SetDefault("permissions.unshorten", "ask")
	viper.SetDefault("permissions.fetch_html", "ask")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".geoshare")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("geoshare")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.geoshare.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating config file: %s\n", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
