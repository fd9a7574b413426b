package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marklet",
	Short: "Compile self-contained HTML components into a bookmarklet",
	Long: `Marklet compiles a directory of self-contained HTML component files into a
single javascript: bookmarklet. Each component file carries its metadata,
style, script and markup in one .html file; the build validates, minifies and
aggregates them into a loader script, a bookmarklet URI and an install page.

Quick Start:
  marklet init                    Initialize a new project
  marklet build                   Compile components into dist/
  marklet list                    List discovered components
  marklet validate                Check component sources
  marklet generate NAME           Scaffold a new component

Command Aliases (for faster typing):
  build (b), list (l), validate (v), generate (g), init (i)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .marklet.yml, can also use MARKLET_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	if err := viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: failed to bind log-level flag:", err)
	}
}

// initConfig wires the configuration sources in precedence order:
//
//  1. --config flag: explicitly specified config file path
//  2. MARKLET_CONFIG_FILE environment variable
//  3. Default: .marklet.yml in the current directory
//
// Individual values additionally bind to MARKLET_<SECTION>_<OPTION>
// environment variables (e.g. MARKLET_BUILD_OUTPUT=out).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("MARKLET_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".marklet")
	}

	viper.SetEnvPrefix("MARKLET")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine, the defaults cover everything.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
