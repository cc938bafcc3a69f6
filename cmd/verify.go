package cmd

import (
	"github.com/djcass44/corbos-scm/pkg/debian"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file.dsc...]",
	Short: "check the files listed in source control files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  verify,
}

func verify(cmd *cobra.Command, args []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	for _, path := range args {
		files, err := debian.Verify(path)
		if err != nil {
			return err
		}
		log.Info("verified source package", "descriptor", path, "files", files)
	}
	return nil
}
