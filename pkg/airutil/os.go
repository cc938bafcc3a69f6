package airutil

import "github.com/drone/envsubst"

// ExpandEnv replaces ${VAR} style references with values from
// the environment. The input is returned unchanged if it cannot
// be parsed.
func ExpandEnv(s string) string {
	val, err := envsubst.EvalEnv(s)
	if err != nil {
		return s
	}
	return val
}

// ExpandAll expands each of the given strings in place.
func ExpandAll(s ...*string) {
	for _, v := range s {
		if v == nil {
			continue
		}
		*v = ExpandEnv(*v)
	}
}
