package cmd

import (
	"os"

	"github.com/djcass44/corbos-scm/cmd/cache"
	"github.com/djcass44/go-utils/logging"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var command = &cobra.Command{
	Use:   "corbos-scm",
	Short: "create debian source packages from git or a container",
	Long: `corbos-scm turns a package directory from a git repository into
a Debian source package (.orig.tar.gz, .debian.tar.xz and .dsc),
or downloads one with pull-debian-source inside a container.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel, _ := cmd.Flags().GetInt(flagLogLevel)

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel * -1))

		_, ctx := logging.NewZap(cmd.Context(), zc)
		log := logr.FromContextOrDiscard(ctx).WithValues("run", uuid.NewString())
		cmd.SetContext(logr.NewContext(ctx, log))
	},
	RunE: run,
}

const flagLogLevel = "v"

func init() {
	command.PersistentFlags().Int(flagLogLevel, 0, "log level. Higher is more")
	command.AddCommand(verifyCmd, cache.Command)
}

func Execute(version string) {
	command.Version = version
	c, err := command.ExecuteC()
	if err != nil {
		report(c.Context(), err)
		os.Exit(1)
	}
}
