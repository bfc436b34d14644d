package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/solarlune/nativeload"
	"github.com/solarlune/nativeload/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {

	var (
		configPath   string
		resourcesDir string
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "nativeload-example <short-name>...",
		Short: "Load native libraries by short name and report where they came from",
		Long: `Loads each library (e.g. "zstd" for libzstd.so) from the system library path,
then from <resources>/resources/lib<name><ext>, then from the path configured
under "<name>Lib" in the config file or environment.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {

			logger := hclog.New(&hclog.LoggerOptions{
				Name:   "nativeload",
				Level:  hclog.LevelFromString(logLevel),
				Output: cmd.ErrOrStderr(),
			})

			var source config.Source = config.Default(logger)
			if configPath != "" {
				file, err := config.LoadTOML(configPath)
				if err != nil {
					return err
				}
				source = config.Chain{file, source}
			}

			opts := nativeload.NewOptions().WithLogger(logger)
			if resourcesDir != "" {
				opts = opts.WithResources(os.DirFS(resourcesDir))
			}

			loader := nativeload.NewLoader(opts)
			defer loader.Cleanup()

			factory := nativeload.NewDescriptorFactory(nativeload.HostPlatform, source)

			for _, name := range args {
				d, err := factory.Descriptor(name)
				if err != nil {
					return err
				}
				if err := loader.Load(d); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return err
				}
				handle, _ := loader.Handle(d.Name())
				fmt.Fprintf(cmd.OutOrStdout(), "%s loaded (handle %#x)\n", d.Name(), handle)
			}

			return nil

		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML file with a [libraries] table of overrides")
	cmd.Flags().StringVarP(&resourcesDir, "resources", "r", "", "directory containing a resources/ folder of bundled libraries")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	return cmd

}
