package debian

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	var cases = []struct {
		in  string
		out PackageVersion
		ok  bool
	}{
		{
			"xsnow (1:3.3.2-1) unstable; urgency=low",
			PackageVersion{
				Name:            "xsnow",
				Epoch:           "1",
				DebianRevision:  "3.3.2-1",
				UpstreamVersion: "3.3.2",
				Target:          "unstable",
			},
			true,
		},
		{
			"xsnow (3.3.2-1) unstable; urgency=low",
			PackageVersion{
				Name:            "xsnow",
				Epoch:           "0",
				DebianRevision:  "3.3.2-1",
				UpstreamVersion: "3.3.2",
				Target:          "unstable",
			},
			true,
		},
		{
			"curl (7.88.1) bookworm; urgency=medium",
			PackageVersion{
				Name:            "curl",
				Epoch:           "0",
				DebianRevision:  "7.88.1",
				UpstreamVersion: "7.88.1",
				Target:          "bookworm",
			},
			true,
		},
		{
			"foo (2:1.0-beta-3ubuntu1) jammy-proposed; urgency=low",
			PackageVersion{
				Name:            "foo",
				Epoch:           "2",
				DebianRevision:  "1.0-beta-3ubuntu1",
				UpstreamVersion: "1.0-beta",
				Target:          "jammy-proposed",
			},
			true,
		},
		{
			"foo (1:2:3.0-1) unstable; urgency=low",
			PackageVersion{
				Name:            "foo",
				Epoch:           "1",
				DebianRevision:  "3.0-1",
				UpstreamVersion: "3.0",
				Target:          "unstable",
			},
			true,
		},
		{
			"xsnow 42 unstable; urgency=low",
			PackageVersion{},
			false,
		},
		{
			"xsnow (1:3.3.2-1) unstable",
			PackageVersion{},
			false,
		},
		{
			"xsnow () unstable; urgency=low",
			PackageVersion{},
			false,
		},
		{
			"xsnow (:3.3.2-1) unstable; urgency=low",
			PackageVersion{},
			false,
		},
		{
			"xsnow (1:3.3.2-1) ; urgency=low",
			PackageVersion{},
			false,
		},
		{
			"",
			PackageVersion{},
			false,
		},
	}

	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			out, err := ParseVersion(tt.in)
			if tt.ok {
				assert.NoError(t, err)
				assert.EqualValues(t, tt.out, out)
				return
			}
			assert.ErrorIs(t, err, ErrMetadataFormat)
		})
	}
}

func TestPackageVersion_String(t *testing.T) {
	pv, err := ParseVersion("xsnow (3.3.2-1) unstable; urgency=low")
	require.NoError(t, err)
	assert.EqualValues(t, "0:3.3.2-1", pv.String())
}

func TestPackageVersion_Validate(t *testing.T) {
	t.Run("valid version", func(t *testing.T) {
		pv, err := ParseVersion("xsnow (1:3.3.2-1) unstable; urgency=low")
		require.NoError(t, err)
		assert.NoError(t, pv.Validate())
	})
	t.Run("invalid version", func(t *testing.T) {
		pv := PackageVersion{
			Name:            "xsnow",
			Epoch:           "abc",
			DebianRevision:  "3.3.2-1",
			UpstreamVersion: "3.3.2",
			Target:          "unstable",
		}
		assert.Error(t, pv.Validate())
	})
}

func TestReadChangelog(t *testing.T) {
	dir := t.TempDir()

	t.Run("first line is parsed", func(t *testing.T) {
		path := filepath.Join(dir, "changelog")
		require.NoError(t, os.WriteFile(path, []byte("xsnow (1:3.3.2-1) unstable; urgency=low\n\n  * Initial release.\n\n -- Jane Doe <jane@example.org>  Mon, 01 Jan 2024 00:00:00 +0000\n"), 0644))

		pv, err := ReadChangelog(path)
		assert.NoError(t, err)
		assert.EqualValues(t, "xsnow", pv.Name)
		assert.EqualValues(t, "1", pv.Epoch)
	})
	t.Run("long header line", func(t *testing.T) {
		path := filepath.Join(dir, "long")
		target := "unstable" + strings.Repeat(" ", 70*1024)
		require.NoError(t, os.WriteFile(path, []byte("xsnow (3.3.2-1) "+target+"; urgency=low\n"), 0644))

		pv, err := ReadChangelog(path)
		assert.NoError(t, err)
		assert.EqualValues(t, "unstable", pv.Target)
	})
	t.Run("no trailing newline", func(t *testing.T) {
		path := filepath.Join(dir, "short")
		require.NoError(t, os.WriteFile(path, []byte("xsnow (3.3.2-1) unstable; urgency=low"), 0644))

		pv, err := ReadChangelog(path)
		assert.NoError(t, err)
		assert.EqualValues(t, "3.3.2-1", pv.DebianRevision)
	})
	t.Run("empty changelog", func(t *testing.T) {
		path := filepath.Join(dir, "empty")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		_, err := ReadChangelog(path)
		assert.ErrorIs(t, err, ErrMetadataFormat)
	})
	t.Run("missing changelog", func(t *testing.T) {
		_, err := ReadChangelog(filepath.Join(dir, "missing"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
