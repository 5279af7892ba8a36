package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chirp8 [command]",
	Short: "CHIP-8 emulator using Go",
	Long: "An emulator for CHIP-8, an interpretted language originally written for the COSMAC VIP/ Telmac 8 bit systems, " +
		"including the SUPER-CHIP and XO-CHIP extensions. Runs compressed program images and can resume from save snapshots.",
	Run: Root,
}

func Root(cmd *cobra.Command, args []string) {
	fmt.Println("Enter command as `chirp8 start /path/image.ch8`")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chirp8)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "perform operations quietly")
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("scale", 8)
	viper.SetDefault("mute", false)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chirp8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chirp8")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() *log.Logger {
	cfg := log.DefaultConfig()
	if viper.GetBool("quiet") {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
