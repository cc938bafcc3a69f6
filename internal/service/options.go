package service

import (
	"fmt"
)

// Mode returns the mode selected by the options. Exactly one
// of Git or Container must be set.
func (o *Options) Mode() (Mode, error) {
	switch {
	case o.Git != "" && o.Container != "":
		return "", fmt.Errorf("%w: git and container are mutually exclusive", ErrInvalidConfig)
	case o.Git != "":
		return ModeGit, nil
	case o.Container != "":
		return ModeContainer, nil
	default:
		return "", fmt.Errorf("%w: one of git or container must be set", ErrInvalidConfig)
	}
}

// Validate checks that the options are complete and fills in
// defaults.
func (o *Options) Validate() error {
	mode, err := o.Mode()
	if err != nil {
		return err
	}
	if o.OutDir == "" {
		return fmt.Errorf("%w: outdir must be set", ErrInvalidConfig)
	}
	if o.Package == "" {
		return fmt.Errorf("%w: package must be set", ErrInvalidConfig)
	}
	if mode == ModeGit && o.Branch == "" {
		o.Branch = DefaultBranch
	}
	return nil
}
