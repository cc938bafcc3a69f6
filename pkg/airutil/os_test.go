package airutil

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("CORBOS_TEST_TOKEN", "hunter2")
	t.Setenv("CORBOS_TEST_EMPTY", "")

	var cases = []struct {
		in  string
		out string
	}{
		{"https://${CORBOS_TEST_TOKEN}@git.example.org/xsnow.git", "https://hunter2@git.example.org/xsnow.git"},
		{"${CORBOS_TEST_EMPTY:-master}", "master"},
		{"${CORBOS_TEST_MISSING}", ""},
		{"plain", "plain"},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			assert.EqualValues(t, tt.out, ExpandEnv(tt.in))
		})
	}
}

func TestExpandAll(t *testing.T) {
	t.Setenv("CORBOS_TEST_BRANCH", "debian/sid")

	branch := "${CORBOS_TEST_BRANCH}"
	pkg := "xsnow"
	ExpandAll(&branch, &pkg, nil)
	assert.EqualValues(t, "debian/sid", branch)
	assert.EqualValues(t, "xsnow", pkg)
}
