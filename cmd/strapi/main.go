package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/strapi-go/cmd/strapi/commands"
	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/fivetwenty-io/strapi-go/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "strapi",
	Short: "Strapi content API CLI",
	Long: `A command-line interface for querying and editing content in a Strapi
content API.

Reads support filters, sorting, pagination, publication state, locales and
relation population. Sessions created with 'strapi login' are kept in the
configured credential store and reused by later commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.strapi/config.yml)")
	flags.StringP("url", "u", "", "API URL, e.g. https://cms.example.com/api")
	flags.StringP("token", "t", "", "API token")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "log requests and responses")
	flags.Bool("no-normalize", false, "keep the data/attributes envelopes in responses")
	flags.String("session-store", defaultSessionStore, "session store (memory, file, nats)")
	flags.String("session-file", "", "session file for the file store (default is $HOME/.strapi/credentials.yml)")
	flags.String("nats-url", "", "NATS server URL for the nats session store")
	flags.String("nats-bucket", constants.DefaultNATSBucket, "JetStream key-value bucket for the nats session store")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("url", flags.Lookup("url"))
	_ = viper.BindPFlag("token", flags.Lookup("token"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("no_normalize", flags.Lookup("no-normalize"))
	_ = viper.BindPFlag("session_store", flags.Lookup("session-store"))
	_ = viper.BindPFlag("session_file", flags.Lookup("session-file"))
	_ = viper.BindPFlag("nats_url", flags.Lookup("nats-url"))
	_ = viper.BindPFlag("nats_bucket", flags.Lookup("nats-bucket"))

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewLogoutCommand())
	rootCmd.AddCommand(commands.NewWhoamiCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewUpdateCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
}

const defaultSessionStore = "file"

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".strapi")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("STRAPI")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()

	level := "INFO"
	if viper.GetBool("verbose") {
		level = "DEBUG"
	}

	logging.Init(logging.Config{Level: level, Format: "text", Output: os.Stderr})

	if err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
