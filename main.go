/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Command cssmap rewrites CSS @import rules using ES module import maps.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "bennypowers.dev/cssmap/cmd/config"
	"bennypowers.dev/cssmap/cmd/resolve"
	"bennypowers.dev/cssmap/cmd/rewrite"
	"bennypowers.dev/cssmap/cmd/version"
	"bennypowers.dev/cssmap/internal/logging"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:           "cssmap",
		Short:         "Rewrite CSS @import rules using import maps",
		Long:          `cssmap rewrites CSS @import specifiers to the absolute URLs given by Eik import maps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(viper.GetBool("verbose"))))

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = logging.FromContext(cmd.Context()).Sync()
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("package", "p", ".", "Project directory containing eik.json / package.json")
	flags.String("eik-json", "", "Path to eik.json (default: <package>/eik.json)")
	flags.String("package-json", "", "Path to package.json (default: <package>/package.json)")
	flags.StringSliceP("map", "m", nil, "Additional import map URL (repeatable)")
	flags.StringSlice("import", nil, "Inline import map entry specifier=url (repeatable, highest precedence)")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	for _, name := range []string{"package", "eik-json", "package-json", "map", "import", "output", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("CSSMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(rewrite.Cmd)
	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
