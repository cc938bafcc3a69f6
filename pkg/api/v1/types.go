package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	Version = "corbos.dev/v1"
	Kind    = "Service"
)

type ServiceSpec struct {
	// Git is the repository containing the package sources.
	Git string `json:"git,omitempty"`
	// Branch is the git branch to check out.
	Branch string `json:"branch,omitempty"`
	// Package is the directory inside the repository (git mode)
	// or the name of the source package (container mode).
	Package string `json:"package,omitempty"`
	OutDir  string `json:"outdir,omitempty"`

	Registry     string `json:"registry,omitempty"`
	Container    string `json:"container,omitempty"`
	Mirror       string `json:"mirror,omitempty"`
	Distribution string `json:"distribution,omitempty"`
}

type Service struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ServiceSpec `json:"spec"`
}
