package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/fivetwenty-io/strapi-go/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKeys are the settings that can be stored in the config file.
var configKeys = []string{
	"url",
	"token",
	"output",
	"no_normalize",
	"session_store",
	"session_file",
	"nats_url",
	"nats_bucket",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the CLI config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration from file, environment and flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := make(map[string]any, len(configKeys))

			for _, key := range configKeys {
				value := viper.Get(key)
				if key == "token" && viper.GetString(key) != "" {
					value = constants.MaskedSecret
				}

				settings[key] = value
			}

			return render(cmd.OutOrStdout(), viper.GetString("output"), settings, nil)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  fmt.Sprintf("Store a configuration value. Known keys: %v", configKeys),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !slices.Contains(configKeys, key) {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			if key == "output" && !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, value) {
				return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
			}

			path, err := configFilePath()
			if err != nil {
				return err
			}

			err = updateConfigFile(path, key, value)
			if err != nil {
				return err
			}

			viper.Set(key, value)

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)

			return nil
		},
	}
}

func configFilePath() (string, error) {
	path := viper.ConfigFileUsed()
	if path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}

	return filepath.Join(home, ".strapi", "config.yml"), nil
}

// updateConfigFile sets key in the YAML file at path, keeping other settings.
func updateConfigFile(path, key, value string) error {
	settings := map[string]any{}

	data, err := os.ReadFile(path) // #nosec G304 -- path is the CLI's own config file
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read config file: %w", err)
	default:
		err = yaml.Unmarshal(data, &settings)
		if err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	settings[key] = value

	data, err = yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
