package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// callSettings are the persisted defaults the call command reads at startup.
// All are boolean toggles.
var callSettings = []struct {
	key  string
	desc string
}{
	{"call.merge_outliers", "soft-collapse filtered haplotypes onto generators"},
	{"call.drm_only", "restrict reporting to known resistance mutations"},
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage persistent vibe-minor defaults",
		Long:  "Show, get, or set persistent defaults for the call command. Stored in ~/.vibe-minor.yaml.",
		Example: `  vibe-minor config                               # show all settings
  vibe-minor config set call.merge_outliers true  # soft-collapse by default
  vibe-minor config get call.drm_only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a persistent default",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a persistent default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	fmt.Printf("# %s\n", configFile())
	for _, s := range callSettings {
		fmt.Printf("%s: %t  # %s\n", s.key, viper.GetBool(s.key), s.desc)
	}
	return nil
}

func runConfigSet(key, value string) error {
	if !knownSetting(key) {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(settingKeys(), ", "))
	}
	b, err := parseSettingValue(value)
	if err != nil {
		return err
	}
	viper.Set(key, b)

	path := viper.ConfigFileUsed()
	if path == "" {
		path = configFile()
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %t in %s\n", key, b, path)
	return nil
}

func runConfigGet(key string) error {
	if !knownSetting(key) {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(settingKeys(), ", "))
	}
	fmt.Println(viper.GetBool(key))
	return nil
}

func knownSetting(key string) bool {
	for _, s := range callSettings {
		if s.key == key {
			return true
		}
	}
	return false
}

func settingKeys() []string {
	keys := make([]string, len(callSettings))
	for i, s := range callSettings {
		keys[i] = s.key
	}
	return keys
}

func parseSettingValue(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q: want true or false", value)
}

// configFile is the persistent settings path, ~/.vibe-minor.yaml.
func configFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibe-minor.yaml"
	}
	return filepath.Join(home, ".vibe-minor.yaml")
}
