package containerutil

import (
	"context"
	"fmt"
	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"strings"
)

// Reference joins the registry and container into an image
// reference and validates it.
func Reference(registry, container string) (name.Reference, error) {
	container = strings.Trim(container, "/")
	if container == "" {
		return nil, fmt.Errorf("container image must not be empty")
	}
	s := container
	if registry = strings.Trim(registry, "/"); registry != "" {
		s = registry + "/" + container
	}
	ref, err := name.ParseReference(s)
	if err != nil {
		return nil, fmt.Errorf("parsing name %s: %w", s, err)
	}
	return ref, nil
}

// Digest resolves the digest of an image without pulling it.
func Digest(ctx context.Context, ref name.Reference) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("ref", ref.Name())
	log.V(1).Info("resolving image digest")

	// fetch the descriptor without actually
	// pulling the image
	desc, err := remote.Head(ref, remote.WithContext(ctx), remote.WithAuthFromKeychain(authn.DefaultKeychain))
	if err != nil {
		return "", fmt.Errorf("getting %s: %w", ref.Name(), err)
	}
	return desc.Digest.String(), nil
}
