package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alnah/go-titlegen/internal/config"
	"github.com/alnah/go-titlegen/internal/prompt"
)

// validConfigKeys lists all supported configuration keys.
var validConfigKeys = []string{
	config.KeyModel,
	config.KeyProvider,
	config.KeyNumTitles,
}

// configEnvVars maps each key to its environment variable fallback.
var configEnvVars = map[string]string{
	config.KeyModel:     config.EnvModel,
	config.KeyProvider:  config.EnvProvider,
	config.KeyNumTitles: config.EnvNumTitles,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-titlegen/config.
Settings can also be overridden via environment variables.

Supported settings:
  model         Default chat model (env: TITLEGEN_MODEL)
  provider      Default LLM provider: openai, deepseek (env: TITLEGEN_PROVIDER)
  num-titles    Default number of titles to generate (env: TITLEGEN_NUM_TITLES)`,
		Example: `  titlegen config set provider deepseek
  titlegen config set num-titles 3
  titlegen config get model
  titlegen config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Supported keys:
  model         Default chat model name
  provider      Default LLM provider: openai, deepseek
  num-titles    Default number of titles to generate (1-10)`,
		Example: `  titlegen config set provider deepseek
  titlegen config set model gpt-4o
  titlegen config set num-titles 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return runConfigSet(env, key, value)
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  titlegen config get provider`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  titlegen config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	// Key-specific validation.
	switch key {
	case config.KeyProvider:
		if _, err := ParseProvider(value); err != nil {
			return err
		}
	case config.KeyNumTitles:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid num-titles %q: must be an integer", value)
		}
		if n < prompt.MinTitles || n > prompt.MaxTitles {
			return fmt.Errorf("invalid num-titles %d: must be between %d and %d", n, prompt.MinTitles, prompt.MaxTitles)
		}
	}

	// Save to config file.
	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(configEnvVars[key])
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range validConfigKeys {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(configEnvVars[key]); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range validConfigKeys {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range validConfigKeys {
		if value, ok := data[key]; ok {
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, value)
		}
	}

	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(validConfigKeys, key)
}
