// Package instantiate drives the template engine across a template
// bundle: it loads the bundle's JSON spec, seeds a context from it,
// walks the bundle's Content/ tree applying inclusion rules, and
// writes the rendered result to an output directory.
package instantiate

import (
	"encoding/json"
	"fmt"

	"github.com/bootstrapp/bootstrapp/internal/bserrors"
)

// SpecFileName is the required spec file at the root of a template bundle.
const SpecFileName = "Bootstrapp.json"

// ContentDirName is the required source tree of a template bundle.
const ContentDirName = "Content"

// DefaultTemplateVersion is used when a spec omits templateVersion.
const DefaultTemplateVersion = "1.0.0"

// Spec is the decoded form of Bootstrapp.json. Unknown keys are
// ignored, per §6; json.Unmarshal already does this for free.
type Spec struct {
	TemplateVersion     string                 `json:"templateVersion"`
	Substitutions       map[string]interface{} `json:"substitutions"`
	Parameters          []ParameterSpec        `json:"parameters"`
	Packages            []PackageSpec          `json:"packages"`
	OutputDirectoryName string                 `json:"outputDirectoryName"`
	IncludeDirectories  []IncludeRule          `json:"includeDirectories"`
	IncludeFiles        []IncludeRule          `json:"includeFiles"`
	ParametrizableFiles []string               `json:"parametrizableFiles"`
	Type                string                 `json:"type"`
}

// ParameterType is the declared type of a ParameterSpec.
type ParameterType string

const (
	ParameterString ParameterType = "String"
	ParameterBool   ParameterType = "Bool"
	ParameterOption ParameterType = "Option"
)

// ParameterSpec describes one user-overridable spec parameter.
type ParameterSpec struct {
	ID      string        `json:"id"`
	Type    ParameterType `json:"type"`
	Default interface{}   `json:"default"`
	Options []string      `json:"options"`
}

// PackageSpec is an opaque package record; the core only ever reads
// its "name" field to apply the exclusion set, per §4.F.
type PackageSpec map[string]interface{}

// Name returns the package's "name" field, or "" if absent or not a string.
func (p PackageSpec) Name() string {
	name, _ := p["name"].(string)
	return name
}

// IncludeRule is one entry of includeDirectories/includeFiles: a
// directory/file list is blacklisted unless its condition is true.
type IncludeRule struct {
	If          string   `json:"if"`
	Directories []string `json:"directories"`
	Files       []string `json:"files"`
}

// LoadSpec decodes raw JSON bytes into a Spec, defaulting
// TemplateVersion when absent.
func LoadSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, bserrors.Spec(SpecFileName, fmt.Errorf("decoding %s: %w", SpecFileName, err))
	}
	if s.TemplateVersion == "" {
		s.TemplateVersion = DefaultTemplateVersion
	}
	return &s, nil
}
