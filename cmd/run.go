package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/djcass44/corbos-scm/cmd/cache"
	"github.com/djcass44/corbos-scm/internal/service"
	"github.com/djcass44/corbos-scm/pkg/airutil"
	scmv1 "github.com/djcass44/corbos-scm/pkg/api/v1"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/yaml"
)

const (
	flagGit          = "git"
	flagPackage      = "package"
	flagBranch       = "branch"
	flagOutDir       = "outdir"
	flagRegistry     = "registry"
	flagContainer    = "container"
	flagMirror       = "mirror"
	flagDistribution = "distribution"
	flagConfig       = "config"
	flagCache        = "cache"
)

// envSourceDateEpoch pins the modification time of archive
// entries.
//
// https://reproducible-builds.org/docs/source-date-epoch/
const envSourceDateEpoch = "SOURCE_DATE_EPOCH"

func init() {
	addFlags(command.Flags())

	_ = command.MarkFlagDirname(flagOutDir)
	_ = command.MarkFlagFilename(flagConfig, ".yaml", ".yml", ".json")
	command.MarkFlagsMutuallyExclusive(flagGit, flagContainer)
}

func addFlags(fs *pflag.FlagSet) {
	fs.String(flagGit, "", "git clone location to fetch package sources from")
	fs.String(flagPackage, "", "path to the package relative to the git root, or the source package name in container mode")
	fs.String(flagBranch, service.DefaultBranch, "git branch to check out")
	fs.String(flagOutDir, "", "output directory to store the source package in")
	fs.String(flagRegistry, "", "container registry to pull the container from")
	fs.String(flagContainer, "", "container image containing pull-debian-source")
	fs.String(flagMirror, "", "mirror passed to pull-debian-source")
	fs.String(flagDistribution, "", "distribution passed to pull-debian-source")
	fs.StringP(flagConfig, "c", "", "path to a service configuration file")
	fs.Bool(flagCache, false, "keep repository checkouts in the user cache directory and update them on later runs")
}

func run(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	opts, err := options(cmd.Flags())
	if err != nil {
		return err
	}
	if useCache, _ := cmd.Flags().GetBool(flagCache); useCache {
		opts.CacheDir = cache.Dir("")
	}
	if opts.ModTime, err = sourceDateEpoch(); err != nil {
		return err
	}

	res, err := service.New(nil, nil).Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	log.Info("completed successfully", "mode", res.Mode, "descriptors", res.Descriptors, "files", res.Files, "revision", res.Revision)
	return nil
}

// options merges the configuration file (if any) with the
// command line. Flags that were set explicitly take precedence.
func options(flags *pflag.FlagSet) (service.Options, error) {
	var spec scmv1.ServiceSpec
	if configPath, _ := flags.GetString(flagConfig); configPath != "" {
		cfg, err := readConfig(configPath)
		if err != nil {
			return service.Options{}, err
		}
		spec = cfg.Spec
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{flagGit, &spec.Git},
		{flagPackage, &spec.Package},
		{flagBranch, &spec.Branch},
		{flagOutDir, &spec.OutDir},
		{flagRegistry, &spec.Registry},
		{flagContainer, &spec.Container},
		{flagMirror, &spec.Mirror},
		{flagDistribution, &spec.Distribution},
	} {
		if flags.Changed(f.name) || *f.dst == "" {
			*f.dst, _ = flags.GetString(f.name)
		}
	}

	opts := service.Options{
		Git:          spec.Git,
		Branch:       spec.Branch,
		Package:      spec.Package,
		OutDir:       spec.OutDir,
		Registry:     spec.Registry,
		Container:    spec.Container,
		Mirror:       spec.Mirror,
		Distribution: spec.Distribution,
	}
	airutil.ExpandAll(
		&opts.Git,
		&opts.Branch,
		&opts.Package,
		&opts.OutDir,
		&opts.Registry,
		&opts.Container,
		&opts.Mirror,
		&opts.Distribution,
	)
	return opts, nil
}

func readConfig(s string) (scmv1.Service, error) {
	f, err := os.Open(s)
	if err != nil {
		return scmv1.Service{}, err
	}
	defer f.Close()

	var config scmv1.Service
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return scmv1.Service{}, fmt.Errorf("%w: decoding %s: %w", service.ErrInvalidConfig, s, err)
	}
	if config.Kind != "" && config.Kind != scmv1.Kind {
		return scmv1.Service{}, fmt.Errorf("%w: unexpected kind %q in %s", service.ErrInvalidConfig, config.Kind, s)
	}
	if config.APIVersion != "" && config.APIVersion != scmv1.Version {
		return scmv1.Service{}, fmt.Errorf("%w: unexpected apiVersion %q in %s", service.ErrInvalidConfig, config.APIVersion, s)
	}
	return config, nil
}

func sourceDateEpoch() (*time.Time, error) {
	val := os.Getenv(envSourceDateEpoch)
	if val == "" {
		return nil, nil
	}
	sec, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a unix timestamp: %w", service.ErrInvalidConfig, envSourceDateEpoch, err)
	}
	t := time.Unix(sec, 0).UTC()
	return &t, nil
}
