package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/djcass44/corbos-scm/internal/service"
	cmdexec "github.com/djcass44/corbos-scm/pkg/command"
	"github.com/djcass44/corbos-scm/pkg/debian"
	"github.com/go-logr/logr"
)

// classify maps an error to the kind that is reported to the
// user. Unknown errors return false.
func classify(err error) (string, bool) {
	var cmdErr *cmdexec.Error
	switch {
	case errors.Is(err, debian.ErrMetadataFormat):
		return "MetadataFormatError", true
	case errors.Is(err, debian.ErrMissingMetadataDirectory):
		return "MissingMetadataDirectoryError", true
	case errors.Is(err, debian.ErrChecksumMismatch):
		return "ChecksumMismatchError", true
	case errors.Is(err, service.ErrInvalidConfig):
		return "ConfigError", true
	case errors.Is(err, service.ErrNoDescriptor):
		return "NoDescriptorError", true
	case errors.As(err, &cmdErr):
		return "CommandError", true
	}
	return "", false
}

// report writes a single line describing err.
func report(ctx context.Context, err error) {
	log, lerr := logr.FromContext(ctx)
	if lerr != nil {
		// flag parsing failed before logging was set up
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return
	}
	if kind, ok := classify(err); ok {
		log.Error(nil, fmt.Sprintf("%s: %s", kind, err))
		return
	}
	log.Error(err, "unexpected error")
}
