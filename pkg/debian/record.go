package debian

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

func NewRecord() *Record {
	return &Record{fields: map[Field]fieldValue{}}
}

// Set stores a single-line field.
func (r *Record) Set(key Field, value string) {
	r.fields[key] = fieldValue{value: value}
}

// Append adds lines to a multi-line field, creating the field
// if it does not exist yet.
func (r *Record) Append(key Field, lines ...string) {
	v := r.fields[key]
	v.list = true
	v.value = ""
	v.lines = append(v.lines, lines...)
	r.fields[key] = v
}

// Value returns the value of a single-line field.
func (r *Record) Value(key Field) (string, bool) {
	v, ok := r.fields[key]
	if !ok || v.list {
		return "", false
	}
	return v.value, true
}

// Lines returns the entries of a multi-line field.
func (r *Record) Lines(key Field) ([]string, bool) {
	v, ok := r.fields[key]
	if !ok || !v.list {
		return nil, false
	}
	return slices.Clone(v.lines), true
}

// Keys returns the field names sorted in byte order.
func (r *Record) Keys() []Field {
	keys := maps.Keys(r.fields)
	slices.Sort(keys)
	return keys
}

func (r *Record) Len() int {
	return len(r.fields)
}

// CollectFields builds the initial source control record for a
// package from its control file fields and declared binary
// packages. Checksums are added later by AppendChecksums.
func CollectFields(fields map[string]string, binaries []BinaryPackage, v PackageVersion) *Record {
	r := NewRecord()
	for _, k := range copiedFields {
		if val, ok := fields[string(k)]; ok {
			r.Set(k, val)
		}
	}

	names := make([]string, 0, len(binaries))
	lines := make([]string, 0, len(binaries))
	for _, b := range binaries {
		// fields that the package doesn't declare are inherited
		// from the rest of the control file
		if b.Section == "" {
			b.Section = fields[string(FieldSection)]
		}
		if b.Priority == "" {
			b.Priority = fields[string(FieldPriority)]
		}
		if b.Architecture == "" {
			b.Architecture = fields[string(FieldArchitecture)]
		}
		names = append(names, b.Name)
		lines = append(lines, b.Line())
	}
	r.Set(FieldBinary, strings.Join(names, ","))
	r.Append(FieldPackageList, lines...)

	r.Set(FieldFormat, SourceFormat)
	r.Set(FieldVersion, v.String())
	r.Set(FieldTestsuite, Testsuite)
	return r
}
