// Package manifest renders the Kubernetes installation manifest for
// the watch client: namespace, service account, the read-only RBAC it
// needs, and the deployment itself.
package manifest

import (
	"bytes"
	"fmt"
	"regexp"
)

// reName matches a valid RFC 1123 label, the shape Kubernetes requires
// for namespace and resource names.
var reName = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Params are the variable parts of the installation manifest.
type Params struct {
	// Namespace the client is deployed into.
	Namespace string
	// Image is the full container image reference.
	Image string
	// ServerURL is the hub base URL passed to the client.
	ServerURL string
	// Kinds are the resource kinds the deployment watches.
	Kinds []string
}

// Renderer produces multi-document install YAML from a Go template.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render executes the install template. The namespace is validated
// rather than sanitized: a bad name in a manifest should fail loudly,
// not silently deploy somewhere else.
func (r *Renderer) Render(params Params) (string, error) {
	if len(params.Namespace) > 63 || !reName.MatchString(params.Namespace) {
		return "", fmt.Errorf("invalid namespace name %q", params.Namespace)
	}
	if params.Image == "" {
		return "", fmt.Errorf("image must not be empty")
	}

	var buf bytes.Buffer
	if err := installTmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render install manifest: %w", err)
	}
	return buf.String(), nil
}
