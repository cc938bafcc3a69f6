package containerutil

import (
	"context"
	"errors"
	"github.com/djcass44/corbos-scm/pkg/command"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, _ command.Options, name string, args ...string) (*command.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return &command.Result{ExitCode: 1}, f.err
	}
	return &command.Result{}, nil
}

func TestReference(t *testing.T) {
	var cases = []struct {
		registry  string
		container string
		out       string
		ok        bool
	}{
		{"registry.example.com", "ubdevtools:latest", "registry.example.com/ubdevtools:latest", true},
		{"registry.example.com/", "/ubdevtools", "registry.example.com/ubdevtools:latest", true},
		{"", "ubuntu:24.04", "index.docker.io/library/ubuntu:24.04", true},
		{"registry.example.com", "", "", false},
		{"registry.example.com", "Not A Valid Image", "", false},
	}
	for _, tt := range cases {
		t.Run(tt.registry+"/"+tt.container, func(t *testing.T) {
			ref, err := Reference(tt.registry, tt.container)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tt.out, ref.Name())
		})
	}
}

func TestFetchSource(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	ref, err := Reference("registry.example.com", "ubdevtools:latest")
	require.NoError(t, err)

	runner := &fakeRunner{}
	require.NoError(t, Pull(ctx, runner, ref))
	require.NoError(t, FetchSource(ctx, runner, ref, FetchOptions{
		OutDir:       "obs_out",
		Mirror:       "some-mirror",
		Distribution: "ubuntu",
		Package:      "curl",
	}))

	assert.EqualValues(t, [][]string{
		{"podman", "pull", "registry.example.com/ubdevtools:latest"},
		{
			"podman", "run", "--rm", "-v", "obs_out:/tmp",
			"registry.example.com/ubdevtools:latest",
			"bash", "-c", "cd /tmp && pull-debian-source --download-only --mirror some-mirror --distro ubuntu curl",
		},
	}, runner.calls)
}

func TestRunArgs_Defaults(t *testing.T) {
	ref, err := Reference("registry.example.com", "ubdevtools:latest")
	require.NoError(t, err)

	args := RunArgs(ref, FetchOptions{OutDir: "/out", Package: "curl"})
	assert.EqualValues(t, "cd /tmp && pull-debian-source --download-only curl", args[len(args)-1])
}

func TestRunArgs_Quoting(t *testing.T) {
	ref, err := Reference("registry.example.com", "ubdevtools:latest")
	require.NoError(t, err)

	var cases = []struct {
		name string
		opts FetchOptions
		out  string
	}{
		{
			"command substitution",
			FetchOptions{Package: "curl$(touch /tmp/x)"},
			`cd /tmp && pull-debian-source --download-only 'curl$(touch /tmp/x)'`,
		},
		{
			"command separator",
			FetchOptions{Package: "curl; rm -rf /tmp", Distribution: "noble"},
			`cd /tmp && pull-debian-source --download-only --distro noble 'curl; rm -rf /tmp'`,
		},
		{
			"single quotes",
			FetchOptions{Package: "curl", Mirror: "http://mirror.example.com/'ubuntu'"},
			`cd /tmp && pull-debian-source --download-only --mirror 'http://mirror.example.com/'\''ubuntu'\''' curl`,
		},
		{
			"safe words are left alone",
			FetchOptions{Package: "libc6-dev", Mirror: "http://archive.ubuntu.com/ubuntu", Distribution: "noble"},
			"cd /tmp && pull-debian-source --download-only --mirror http://archive.ubuntu.com/ubuntu --distro noble libc6-dev",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			args := RunArgs(ref, tt.opts)
			assert.EqualValues(t, tt.out, args[len(args)-1])
		})
	}
}

func TestPull_Error(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	ref, err := Reference("registry.example.com", "ubdevtools:latest")
	require.NoError(t, err)

	cerr := &command.Error{Command: "podman pull", ExitCode: 125, Stderr: "manifest unknown"}
	runner := &fakeRunner{err: cerr}

	err = Pull(ctx, runner, ref)
	var target *command.Error
	assert.True(t, errors.As(err, &target))
	assert.True(t, strings.Contains(err.Error(), "manifest unknown"))
	assert.Len(t, runner.calls, 1)
}
