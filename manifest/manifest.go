// Package manifest loads per-method validation policy from YAML and
// applies it over registered method specs, so deployments can adjust
// calling conventions or switch validation off for individual methods
// without a rebuild.
package manifest

import (
	"fmt"
	"os"

	picovalid "github.com/picovalid/picovalid-go"
	"gopkg.in/yaml.v3"
)

// Manifest is the root of a policy file.
//
//	methods:
//	  - target: UserService
//	    method: CreateUser
//	    convention: receiver   # auto | receiver | detached
//	  - target: UserService
//	    method: ImportLegacy
//	    disabled: true
type Manifest struct {
	Methods []MethodPolicy `yaml:"methods"`
}

// MethodPolicy overrides the policy of one registered method. Absent
// fields leave the registered value in place.
type MethodPolicy struct {
	Target     string `yaml:"target"`
	Method     string `yaml:"method"`
	Convention string `yaml:"convention"`
	Disabled   *bool  `yaml:"disabled"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	for i, p := range m.Methods {
		if p.Target == "" || p.Method == "" {
			return nil, fmt.Errorf("manifest: entry %d: target and method are required", i)
		}
		if _, err := parseConvention(p.Convention); err != nil {
			return nil, fmt.Errorf("manifest: entry %d: %w", i, err)
		}
	}
	return &m, nil
}

// Apply applies every policy in the manifest to reg. Policies referring to
// unregistered methods fail, since a typo would otherwise silently leave a
// method unaffected.
func (m *Manifest) Apply(reg *picovalid.Registry) error {
	for _, p := range m.Methods {
		conv, err := parseConvention(p.Convention)
		if err != nil {
			return err
		}
		o := picovalid.Override{Disabled: p.Disabled}
		if conv != nil {
			o.Convention = conv
		}
		if err := reg.Apply(p.Target, p.Method, o); err != nil {
			return err
		}
	}
	return nil
}

func parseConvention(s string) (*picovalid.Convention, error) {
	var c picovalid.Convention
	switch s {
	case "":
		return nil, nil
	case "auto":
		c = picovalid.ConventionAuto
	case "receiver":
		c = picovalid.ConventionByReceiver
	case "detached":
		c = picovalid.ConventionDetached
	default:
		return nil, fmt.Errorf("unknown convention %q", s)
	}
	return &c, nil
}
