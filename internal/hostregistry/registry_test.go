package hostregistry

import "testing"

func TestResolve_Builtins(t *testing.T) {
	reg := New(nil)

	for _, tc := range []struct {
		name     string
		protocol Protocol
	}{
		{"github", ProtocolGitHub},
		{"gitlab", ProtocolGitLab},
		{"source", ProtocolGitHub},
	} {
		host, err := reg.Resolve(tc.name)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", tc.name, err)
		}
		if host.Protocol != tc.protocol {
			t.Errorf("Resolve(%s).Protocol = %s, want %s", tc.name, host.Protocol, tc.protocol)
		}
	}
}

func TestResolve_SourceIsGitHubAlias(t *testing.T) {
	reg := New(nil)

	source, _ := reg.Resolve("source")
	github, _ := reg.Resolve("github")

	if source.Protocol != ProtocolGitHub {
		t.Errorf("expected source to resolve to protocol=github, got %s", source.Protocol)
	}
	if source.BaseURL != github.BaseURL {
		t.Errorf("expected source and github to share a base URL")
	}
}

func TestResolve_UserHostOverridesBuiltin(t *testing.T) {
	reg := New([]UserHost{
		{Name: "github", BaseURL: "https://github.example.internal", Protocol: ProtocolGitHub},
	})

	host, err := reg.Resolve("github")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if host.BaseURL != "https://github.example.internal" {
		t.Errorf("expected user override to win, got %s", host.BaseURL)
	}
}

func TestResolve_UserDefinedHost(t *testing.T) {
	reg := New([]UserHost{
		{Name: "artifactory-internal", BaseURL: "https://art.example.com", Protocol: ProtocolArtifactory},
	})

	host, err := reg.Resolve("artifactory-internal")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if host.Protocol != ProtocolArtifactory {
		t.Errorf("expected artifactory protocol, got %s", host.Protocol)
	}
}

func TestResolve_UnknownHostIsConfigurationError(t *testing.T) {
	reg := New(nil)

	if _, err := reg.Resolve("does-not-exist"); err == nil {
		t.Error("expected error for unregistered host")
	}
}
