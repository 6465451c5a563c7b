// Package manifest compiles a structured domain description into a
// declarative deployment manifest. Like the code emitter, it is a
// best-effort transformer: it always returns the best manifest it
// could build plus the diagnostics accumulated along the way.
package manifest

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DomainDescription is the designer-authored input: what the agent is
// for, how it is talked to, and what it touches.
type DomainDescription struct {
	ID          string         `json:"id" mapstructure:"id"`
	Name        string         `json:"name" mapstructure:"name"`
	Description string         `json:"description" mapstructure:"description"`
	Version     string         `json:"version" mapstructure:"version"`
	Interaction []string       `json:"interactionModes" mapstructure:"interaction_modes"`
	Catalog     []CatalogEntry `json:"catalog" mapstructure:"catalog"`
	UseCases    []UseCase      `json:"useCases" mapstructure:"use_cases"`
	Parameters  []Parameter    `json:"parameters" mapstructure:"parameters"`
}

// CatalogEntry is one application or agent in the domain.
type CatalogEntry struct {
	Name       string `json:"name" mapstructure:"name"`
	Identifier string `json:"identifier" mapstructure:"identifier"`
	Kind       string `json:"kind" mapstructure:"kind"` // "application" or "agent"
}

// UseCase is one input triplet; each becomes an interior workflow node.
type UseCase struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Priority    string `json:"priority" mapstructure:"priority"`
}

// Parameter declares a runtime input with an optional typed default.
type Parameter struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Type        string `json:"type" yaml:"type" mapstructure:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
}

// DecodeDescription converts a loosely-typed map (as arrives over
// JSON) into a DomainDescription.
func DecodeDescription(raw map[string]any) (*DomainDescription, error) {
	var desc DomainDescription
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &desc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode domain description: %w", err)
	}
	return &desc, nil
}

// Manifest is the declarative deployment artifact.
type Manifest struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
	Status     Status   `yaml:"status"`
}

// Metadata identifies the deployed agent.
type Metadata struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	CreatedAt   string   `yaml:"createdAt"`
	UpdatedAt   string   `yaml:"updatedAt"`
}

// Spec is the desired configuration.
type Spec struct {
	Capabilities   []string       `yaml:"capabilities"`
	Parameters     []Parameter    `yaml:"parameters,omitempty"`
	Workflow       Workflow       `yaml:"workflow"`
	Integrations   []Integration  `yaml:"integrations,omitempty"`
	ResourceLimits ResourceLimits `yaml:"resourceLimits"`
	Observability  Observability  `yaml:"observability"`
	HealthCheck    HealthCheck    `yaml:"healthCheck"`
}

// Workflow is the derived node skeleton.
type Workflow struct {
	EntryPoint string         `yaml:"entryPoint"`
	Nodes      []WorkflowNode `yaml:"nodes"`
}

// WorkflowNode is one node in the skeleton.
type WorkflowNode struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "entry", "task" or "terminal"
}

// Integration is a recognized external platform binding.
type Integration struct {
	Platform   string `yaml:"platform"`
	Identifier string `yaml:"identifier"`
}

// ResourceLimits are fixed defaults; not derived from the description.
type ResourceLimits struct {
	CPU            string `yaml:"cpu"`
	Memory         string `yaml:"memory"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Observability settings are fixed defaults.
type Observability struct {
	Metrics  bool   `yaml:"metrics"`
	LogLevel string `yaml:"logLevel"`
	Tracing  bool   `yaml:"tracing"`
}

// HealthCheck settings are fixed defaults.
type HealthCheck struct {
	IntervalSeconds int    `yaml:"intervalSeconds"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
	Endpoint        string `yaml:"endpoint"`
}

// Status is the initial lifecycle block.
type Status struct {
	Phase string `yaml:"phase"`
	State string `yaml:"state"`
}

// YAML serializes the manifest.
func (m *Manifest) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// Severity grades a compile diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one finding accumulated during compilation.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
}
