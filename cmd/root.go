package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `            _     _                      
  __ _ _ __(_) __| |___ _   _ _ __   ___ 
 / _` + "`" + ` | '__| |/ _` + "`" + ` / __| | | | '_ \ / __|
| (_| | |  | | (_| \__ \ |_| | | | | (__ 
 \__, |_|  |_|\__,_|___/\__, |_| |_|\___|
 |___/                  |___/            

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gridsync",
	Short: "SteamGridDB artwork for the Xbox app's third-party library.",
	Long: LOGO + `gridsync lists the Steam, GOG, Epic, Ubisoft and EA games the Xbox app
imported, and replaces their cover art with square artwork from SteamGridDB.

An API key is required: https://www.steamgriddb.com/profile/preferences/api`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gridsync.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("root", "", "", "Third-party library folder (default: library.root from config)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gridsync")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".gridsync.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys
	viper.SetDefault("steamgriddb.apikey", "")
	viper.SetDefault("steamgriddb.timeout", 30)
	viper.SetDefault("library.root", defaultLibraryRoot())
	viper.BindEnv("steamgriddb.apikey", "STEAMGRIDDB_API_KEY")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// defaultLibraryRoot is where the Xbox app keeps its third-party manifests.
func defaultLibraryRoot() string {
	profile := os.Getenv("USERPROFILE")
	if profile == "" {
		profile, _ = homedir.Dir()
	}
	return filepath.Join(profile, "AppData", "Local", "Packages",
		"Microsoft.GamingApp_8wekyb3d8bbwe", "LocalState", "ThirdPartyLibraries")
}
