package cmd

import (
	"github.com/spf13/cobra"
	"josephlewis.net/gsh/core"
	"josephlewis.net/gsh/core/config"
	"josephlewis.net/gsh/core/interp"
)

var (
	cfgPath string
	oneShot string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gsh",
	Short: "An interactive command interpreter",
	Long: `gsh reads command lines, resolves them into pipelines of builtins
and external executables, and runs them against the OS.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configuration, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		shell, err := core.NewShell(configuration)
		if err != nil {
			return err
		}
		defer shell.Close()

		if oneShot != "" {
			if err := shell.Eval(oneShot); err != nil && err != interp.ErrExit {
				return err
			}
			return nil
		}

		return shell.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVarP(&oneShot, "command", "c", "", "run a single command line and exit")
}
