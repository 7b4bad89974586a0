// File: internal/hostregistry/registry.go
// Purpose: Merges user-defined hosts with the three builtins and resolves host names
// Problem: ToolRefs name a host by a short string; something must turn that into (base_url, protocol)
// Role: Flat map of HostName -> Host, builtins overlaid by user config, user wins (spec.md §4.1)
// Usage: reg := hostregistry.New(mergedHosts); host, err := reg.Resolve("github")
// Design choices: "source" is an alias for "github", not a separate protocol, per spec.md §9

package hostregistry

import "fmt"

// Protocol identifies which provider adapter a Host speaks.
type Protocol string

const (
	ProtocolGitHub      Protocol = "github"
	ProtocolGitLab      Protocol = "gitlab"
	ProtocolArtifactory Protocol = "artifactory"
)

// Host is a (base URL, protocol) pair identified by a short name.
type Host struct {
	Name     string
	BaseURL  string
	Protocol Protocol
}

// Registry is the resolved, flat map of every known host name to its Host.
type Registry struct {
	hosts map[string]Host
}

func builtins() map[string]Host {
	return map[string]Host{
		"github": {Name: "github", BaseURL: "https://api.github.com", Protocol: ProtocolGitHub},
		"gitlab": {Name: "gitlab", BaseURL: "https://gitlab.com", Protocol: ProtocolGitLab},
		// "source" is preserved for backward compatibility as an alias for github.
		"source": {Name: "source", BaseURL: "https://api.github.com", Protocol: ProtocolGitHub},
	}
}

// UserHost is a user-defined host entry as it appears in foreman.toml's
// [hosts] table, before being folded into a Registry.
type UserHost struct {
	Name     string
	BaseURL  string
	Protocol Protocol
}

// New builds a Registry by overlaying userHosts on top of the three
// builtins; a user-defined host with the same name replaces the builtin.
func New(userHosts []UserHost) *Registry {
	hosts := builtins()
	for _, uh := range userHosts {
		hosts[uh.Name] = Host{Name: uh.Name, BaseURL: uh.BaseURL, Protocol: uh.Protocol}
	}
	return &Registry{hosts: hosts}
}

// Resolve looks up a host name, returning a configuration error naming
// the missing host when it isn't registered.
func (r *Registry) Resolve(name string) (Host, error) {
	h, ok := r.hosts[name]
	if !ok {
		return Host{}, fmt.Errorf("unknown host %q: declare it in [hosts] or use github/gitlab/source", name)
	}
	return h, nil
}
