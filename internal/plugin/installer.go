package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ChamsBouzaiene/reactchain/internal/engine"
	"github.com/ChamsBouzaiene/reactchain/internal/prompts"
)

// ManifestPath is where a domain publishes its plugin manifest.
const ManifestPath = "/.well-known/ai-plugin.json"

// maxDocument bounds manifest and OpenAPI downloads.
const maxDocument = 4 << 20

// Registration is the result of a successful install.
type Registration struct {
	Domain   string
	APIBase  string // "" when the definition declares no servers
	Summary  string // plugin template followed by the definition as YAML
	Manifest *Manifest
}

// Installer fetches plugin manifests and records the API base on a session.
// Only one installed API is addressable at a time: each install overwrites
// the previous base URL.
type Installer struct {
	Session *engine.Session
	Prompts *prompts.PromptRegistry
	Client  *http.Client
}

// NewInstaller returns an installer with a 30 second HTTP timeout.
func NewInstaller(sess *engine.Session, reg *prompts.PromptRegistry) *Installer {
	if reg == nil {
		reg = prompts.DefaultRegistry()
	}
	return &Installer{
		Session: sess,
		Prompts: reg,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NormalizeDomain strips the words the model tends to wrap a domain in and
// any scheme.
func NormalizeDomain(domain string) string {
	domain = strings.ReplaceAll(domain, "the ", "")
	domain = strings.ReplaceAll(domain, " plugin", "")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	return strings.TrimSpace(domain)
}

// Install is the install tool: it returns the plugin summary, or "" when the
// install fails. Failures are logged and leave the session untouched.
func (in *Installer) Install(ctx context.Context, domain string) string {
	reg, err := in.InstallPlugin(ctx, domain)
	if err != nil {
		log.Printf("⚠️  plugin install failed: %v", err)
		return ""
	}
	return reg.Summary
}

// InstallPlugin fetches and validates the manifest of domain, loads its
// OpenAPI definition and points the session API base at its first server.
func (in *Installer) InstallPlugin(ctx context.Context, domain string) (*Registration, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, errors.New("empty domain")
	}
	manifestURL := "https://" + domain + ManifestPath

	raw, err := in.fetch(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("fetch plugin manifest: %w", err)
	}
	manifest, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(manifest.API.Type, "openapi") {
		return nil, fmt.Errorf("unsupported api type %q", manifest.API.Type)
	}

	apiURL, err := resolve(manifestURL, manifest.API.URL)
	if err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	def, err := in.fetch(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("fetch API definition: %w", err)
	}

	doc, base, err := ParseOpenAPI(def)
	if err != nil {
		return nil, err
	}

	reg := &Registration{
		Domain:   domain,
		APIBase:  base,
		Summary:  in.Prompts.Content(prompts.PluginID) + "\n\n" + doc,
		Manifest: manifest,
	}
	if base != "" && in.Session != nil {
		in.Session.SetAPIBase(base)
	}
	log.Printf("✅ Successfully installed the %s plugin and API", domain)
	return reg, nil
}

func (in *Installer) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	client := in.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %s", target, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocument))
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

type openAPIHeader struct {
	OpenAPI string `yaml:"openapi"`
	Servers []struct {
		URL       string `yaml:"url"`
		Variables map[string]struct {
			Default string `yaml:"default"`
		} `yaml:"variables"`
	} `yaml:"servers"`
}

// ParseOpenAPI parses a YAML or JSON OpenAPI definition. It returns the
// definition re-serialized as block YAML and the first server URL with its
// variables replaced by their defaults ("" when there is none).
func ParseOpenAPI(def []byte) (string, string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(def, &root); err != nil {
		return "", "", fmt.Errorf("parse API definition: %w", err)
	}
	if len(root.Content) == 0 {
		return "", "", errors.New("parse API definition: empty document")
	}

	var hdr openAPIHeader
	if err := root.Decode(&hdr); err != nil {
		return "", "", fmt.Errorf("parse API definition: %w", err)
	}
	base := ""
	if hdr.OpenAPI != "" && len(hdr.Servers) > 0 {
		base = hdr.Servers[0].URL
		for name, v := range hdr.Servers[0].Variables {
			base = strings.ReplaceAll(base, "{"+name+"}", v.Default)
		}
	}

	blockStyle(&root)
	out, err := yaml.Marshal(&root)
	if err != nil {
		return "", "", fmt.Errorf("encode API definition: %w", err)
	}
	return string(out), base, nil
}

// blockStyle drops flow collections and quoting so JSON input prints as
// plain YAML. The encoder still quotes strings that would change type.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style &^= yaml.FlowStyle
	case yaml.ScalarNode:
		n.Style &^= yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
