package debian

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testControl = `# generated by hand
Source: xsnow
Section: x11
Priority: optional
Maintainer: Jane Doe <jane@example.org>
Build-Depends: debhelper-compat (= 13),
 libx11-dev,
 libxpm-dev
Standards-Version: 4.6.2
Homepage: https://www.ratrabbit.nl/ratrabbit/xsnow/
Rules-Requires-Root: no

Package: xsnow
Architecture: any
Depends: ${shlibs:Depends}, ${misc:Depends}
Description: Let it snow on your desktop
 Xsnow shows an animation of Santa and snow on your desktop.

Package: xsnow-data
Architecture: all
Section: games
Description: data files for xsnow
`

func TestParseControl(t *testing.T) {
	c, err := ParseControl(strings.NewReader(testControl))
	require.NoError(t, err)

	t.Run("fields are flattened", func(t *testing.T) {
		fields := c.Fields()
		assert.EqualValues(t, "xsnow", fields["Source"])
		assert.EqualValues(t, "Jane Doe <jane@example.org>", fields["Maintainer"])
		assert.EqualValues(t, "debhelper-compat (= 13), libx11-dev, libxpm-dev", fields["Build-Depends"])
		// the last paragraph wins
		assert.EqualValues(t, "all", fields["Architecture"])
		assert.EqualValues(t, "games", fields["Section"])
	})
	t.Run("binaries are in declaration order", func(t *testing.T) {
		binaries := c.Binaries()
		assert.EqualValues(t, []BinaryPackage{
			{
				Name:         "xsnow",
				Architecture: "any",
			},
			{
				Name:         "xsnow-data",
				Section:      "games",
				Architecture: "all",
			},
		}, binaries)
	})
}

func TestParseControl_NoBinaries(t *testing.T) {
	c, err := ParseControl(strings.NewReader("Source: curl\nArchitecture: any\n"))
	require.NoError(t, err)

	assert.Empty(t, c.Binaries())
	assert.EqualValues(t, map[string]string{
		"Source":       "curl",
		"Architecture": "any",
	}, c.Fields())
}

func TestParseControl_Empty(t *testing.T) {
	c, err := ParseControl(strings.NewReader(""))
	require.NoError(t, err)

	assert.Empty(t, c.Binaries())
	assert.Empty(t, c.Fields())
}

func TestParseControl_LongLines(t *testing.T) {
	description := strings.Repeat("snow ", 20*1024)
	in := "Source: xsnow\n# a comment between fields\nMaintainer: Jane Doe <jane@example.org>\n\nPackage: xsnow\nDescription: " + description + "\n"

	c, err := ParseControl(strings.NewReader(in))
	require.NoError(t, err)

	fields := c.Fields()
	assert.EqualValues(t, "Jane Doe <jane@example.org>", fields["Maintainer"])
	assert.EqualValues(t, strings.TrimSpace(description), fields["Description"])
	assert.Len(t, c.Binaries(), 1)
}

func TestParseControl_Malformed(t *testing.T) {
	_, err := ParseControl(strings.NewReader("Source: xsnow\nthis line has no separator\n"))
	assert.ErrorIs(t, err, ErrMetadataFormat)
}

func TestReadControl(t *testing.T) {
	path := filepath.Join(t.TempDir(), "control")
	require.NoError(t, os.WriteFile(path, []byte(testControl), 0644))

	c, err := ReadControl(path)
	assert.NoError(t, err)
	assert.Len(t, c.Binaries(), 2)

	_, err = ReadControl(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBinaryPackage_Line(t *testing.T) {
	var cases = []struct {
		in  BinaryPackage
		out string
	}{
		{
			BinaryPackage{Name: "foo"},
			"foo deb none optional arch=any",
		},
		{
			BinaryPackage{Name: "foo", Section: "utils"},
			"foo deb utils optional arch=any",
		},
		{
			BinaryPackage{Name: "foo", Section: "libs", Priority: "required", Architecture: "amd64"},
			"foo deb libs required arch=amd64",
		},
	}

	for _, tt := range cases {
		t.Run(tt.out, func(t *testing.T) {
			assert.EqualValues(t, tt.out, tt.in.Line())
		})
	}
}
