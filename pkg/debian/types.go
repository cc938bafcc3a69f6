package debian

import "pault.ag/go/debian/control"

// Field is the name of a field in a Debian source control
// file (.dsc).
type Field string

const (
	FieldSource           Field = "Source"
	FieldArchitecture     Field = "Architecture"
	FieldMaintainer       Field = "Maintainer"
	FieldBuildDepends     Field = "Build-Depends"
	FieldStandardsVersion Field = "Standards-Version"
	FieldHomepage         Field = "Homepage"
	FieldVcsBrowser       Field = "Vcs-Browser"
	FieldVcsGit           Field = "Vcs-Git"

	FieldFormat      Field = "Format"
	FieldVersion     Field = "Version"
	FieldTestsuite   Field = "Testsuite"
	FieldBinary      Field = "Binary"
	FieldPackageList Field = "Package-List"

	FieldChecksumsSha1   Field = "Checksums-Sha1"
	FieldChecksumsSha256 Field = "Checksums-Sha256"
	FieldFiles           Field = "Files"

	FieldPackage  Field = "Package"
	FieldSection  Field = "Section"
	FieldPriority Field = "Priority"
)

// copiedFields are taken verbatim from the control file
// when they are present.
var copiedFields = []Field{
	FieldSource,
	FieldArchitecture,
	FieldMaintainer,
	FieldBuildDepends,
	FieldStandardsVersion,
	FieldHomepage,
	FieldVcsBrowser,
	FieldVcsGit,
}

const (
	SourceFormat = "3.0 (quilt)"
	Testsuite    = "autopkgtest"

	DefaultSection      = "none"
	DefaultPriority     = "optional"
	DefaultArchitecture = "any"
)

// PackageVersion is the version information extracted from
// the top entry of a debian/changelog file.
type PackageVersion struct {
	Name            string
	Epoch           string
	DebianRevision  string
	UpstreamVersion string
	Target          string
}

// Names contains the canonical file and directory names of
// a source package.
type Names struct {
	SourceDir     string
	OrigTarball   string
	DebianTarball string
	Descriptor    string
}

// BinaryPackage is a binary package declared by the control
// file.
type BinaryPackage struct {
	Name         string
	Section      string
	Priority     string
	Architecture string
}

// Control is a parsed debian/control file.
type Control struct {
	paragraphs []control.Paragraph
}

// Checksums holds the digests of a single file.
type Checksums struct {
	MD5    control.FileHash
	SHA1   control.FileHash
	SHA256 control.FileHash
}

type fieldValue struct {
	value string
	lines []string
	list  bool
}

// Record is the set of fields that make up a source
// control file.
type Record struct {
	fields map[Field]fieldValue
}
