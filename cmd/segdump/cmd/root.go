/*
Copyright © 2026 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/segdump/internal/colors"
	"github.com/blacktop/segdump/internal/config"
	"github.com/blacktop/segdump/pkg/macho"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// AppVersion stores the plugin's version
	AppVersion string
	// AppBuildTime stores the plugin's build time
	AppBuildTime string
)

var cpuColor = colors.BoldHiBlue().SprintFunc()
var segNameColor = colors.Bold().SprintFunc()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "segdump <macho>",
	Short: "Print the CPU type and segment names of a MachO",
	Example: heredoc.Doc(`
		# List the segments of a thin MachO
		❯ segdump /usr/lib/dyld
		arm64
		segname: __TEXT
		...

		# Only decode the arm64 slice of a universal MachO
		❯ segdump --arch arm64 /bin/ls

		# Zero fill short reads and exit 0 whatever the decode outcome
		❯ segdump --legacy truncated.o`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if conf.Verbose {
			log.SetLevel(log.DebugLevel)
		}
		// colour is opt-in, even on a terminal
		colors.Init(&conf.Color)

		machoPath := filepath.Clean(args[0])

		f, err := openMachO(machoPath)
		if err != nil {
			return err
		}
		defer f.Close()

		return dump(cmd.OutOrStdout(), f, conf)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihander.Default)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/segdump/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().Bool("color", false, "colorize output")
	rootCmd.Flags().StringP("arch", "a", "", fmt.Sprintf("Which architecture to decode in a fat/universal MachO (%s)", strings.Join(macho.CPUNames(), ", ")))
	rootCmd.Flags().BoolP("json", "j", false, "Print the decoded images as JSON")
	rootCmd.Flags().Bool("legacy", false, "Zero fill short reads and exit 0 on decode errors")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindPFlag("arch", rootCmd.Flags().Lookup("arch"))
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
	viper.BindPFlag("legacy", rootCmd.Flags().Lookup("legacy"))
	viper.BindEnv("color", "CLICOLOR")

	rootCmd.RegisterFlagCompletionFunc("arch", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return macho.CPUNames(), cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.MarkZshCompPositionalArgumentFile(1)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "segdump"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("segdump")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// openMachO opens path for the decoder, which needs random access to it.
func openMachO(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	if fi.IsDir() {
		f.Close()
		return nil, errors.Errorf("%s is a directory", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "%s is not seekable", path)
	}
	return f, nil
}

func dump(w io.Writer, r io.ReaderAt, conf *config.Config) error {
	var h macho.Handler
	var images *macho.Collector
	if conf.JSON {
		images = &macho.Collector{}
		h = images
	} else {
		lw := macho.NewLineWriter(w)
		if conf.Color && colors.Enabled() {
			lw.CPUColor = cpuColor
			lw.NameColor = segNameColor
		}
		h = lw
	}

	err := macho.NewInspector(r, h, &macho.Config{
		ZeroFill: conf.Legacy,
		Arch:     conf.Arch,
	}).Inspect()

	if images != nil {
		dat, jerr := json.MarshalIndent(images, "", "  ")
		if jerr != nil {
			return fmt.Errorf("failed to marshal JSON: %v", jerr)
		}
		fmt.Fprintln(w, string(dat))
	}

	if err != nil {
		if conf.Legacy {
			log.WithError(err).Warn("MachO decoded with errors")
			return nil
		}
		return err
	}
	return nil
}
