package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/nwalker85/agentfoundry/pkg/ident"
	"github.com/nwalker85/agentfoundry/pkg/schema"
)

const (
	apiVersion = "foundry.dev/v1"
	kind       = "AgentDeployment"

	// EntryNode and the terminals are fixed workflow identities.
	EntryNode    = "understand"
	CompleteNode = "complete"
	ErrorNode    = "error"

	// MaxUseCaseNodes caps the interior nodes derived from use cases.
	MaxUseCaseNodes = 10

	// AutonomousTag is added when the catalog contains agent entries.
	AutonomousTag = "autonomous"
)

// knownPlatforms are the integration targets recognized by substring
// match against catalog identifiers. Applications that match nothing
// here are dropped (with a warning): documented lossy behavior.
var knownPlatforms = []string{
	"jira", "github", "gitlab", "slack", "teams",
	"servicenow", "salesforce", "zendesk", "confluence", "pagerduty",
}

// Compiler builds deployment manifests from domain descriptions.
type Compiler struct {
	now func() time.Time
}

// CompilerOption configures the Compiler.
type CompilerOption func(*Compiler)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) CompilerOption {
	return func(c *Compiler) {
		c.now = now
	}
}

// NewCompiler creates a manifest compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the best manifest it can from the description,
// accumulating diagnostics instead of failing. The partial manifest is
// always usable; callers decide what severity they tolerate.
func (c *Compiler) Compile(desc *DomainDescription) (*Manifest, []Diagnostic) {
	var diags []Diagnostic

	name := desc.Name
	if name == "" {
		name = "unnamed-agent"
		diags = append(diags, Diagnostic{SeverityError, "description has no name; using placeholder"})
	}
	id := desc.ID
	if id == "" {
		id = ident.Sanitize(name)
		diags = append(diags, Diagnostic{SeverityWarning, fmt.Sprintf("description has no id; derived %q from the name", id)})
	}
	version := desc.Version
	if version == "" {
		version = "0.1.0"
	}

	now := c.now().UTC().Format(time.RFC3339)

	m := &Manifest{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: Metadata{
			ID:          id,
			Name:        name,
			Version:     version,
			Description: desc.Description,
			Tags:        capabilityTags(desc),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Spec: Spec{
			Capabilities: capabilityTags(desc),
			Parameters:   desc.Parameters,
			Workflow:     c.workflow(desc, &diags),
			Integrations: c.integrations(desc, &diags),
			// Fixed defaults, not derived from the description.
			ResourceLimits: ResourceLimits{CPU: "500m", Memory: "512Mi", TimeoutSeconds: 300},
			Observability:  Observability{Metrics: true, LogLevel: "info", Tracing: false},
			HealthCheck:    HealthCheck{IntervalSeconds: 30, TimeoutSeconds: 5, Endpoint: "/healthz"},
		},
		Status: Status{Phase: "pending", State: "declared"},
	}

	diags = append(diags, c.validateParameters(desc.Parameters)...)
	return m, diags
}

// capabilityTags lower-cases and de-duplicates the interaction modes,
// preserving first-seen order, and appends the autonomous tag when the
// catalog contains agent entries.
func capabilityTags(desc *DomainDescription) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, mode := range desc.Interaction {
		tag := strings.ToLower(strings.TrimSpace(mode))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	for _, entry := range desc.Catalog {
		if strings.EqualFold(entry.Kind, "agent") && !seen[AutonomousTag] {
			seen[AutonomousTag] = true
			tags = append(tags, AutonomousTag)
		}
	}
	return tags
}

func (c *Compiler) workflow(desc *DomainDescription, diags *[]Diagnostic) Workflow {
	nodes := []WorkflowNode{
		{ID: EntryNode, Name: "Understand request", Kind: "entry"},
	}

	uniq := ident.NewUniquer()
	// Reserve the fixed identities so a use case named "understand"
	// cannot collide with them.
	uniq.Take(EntryNode)
	uniq.Take(CompleteNode)
	uniq.Take(ErrorNode)

	useCases := desc.UseCases
	if len(useCases) > MaxUseCaseNodes {
		*diags = append(*diags, Diagnostic{
			SeverityWarning,
			fmt.Sprintf("%d use cases exceed the workflow cap of %d; extras dropped", len(useCases), MaxUseCaseNodes),
		})
		useCases = useCases[:MaxUseCaseNodes]
	}
	for _, uc := range useCases {
		if uc.Name == "" {
			*diags = append(*diags, Diagnostic{SeverityWarning, "skipping unnamed use case"})
			continue
		}
		nodes = append(nodes, WorkflowNode{
			ID:   uniq.Take(uc.Name),
			Name: uc.Name,
			Kind: "task",
		})
	}

	nodes = append(nodes,
		WorkflowNode{ID: CompleteNode, Name: "Complete", Kind: "terminal"},
		WorkflowNode{ID: ErrorNode, Name: "Error", Kind: "terminal"},
	)

	return Workflow{EntryPoint: EntryNode, Nodes: nodes}
}

func (c *Compiler) integrations(desc *DomainDescription, diags *[]Diagnostic) []Integration {
	var out []Integration
	for _, entry := range desc.Catalog {
		if strings.EqualFold(entry.Kind, "agent") {
			continue
		}
		haystack := strings.ToLower(entry.Identifier + " " + entry.Name)
		matched := false
		for _, platform := range knownPlatforms {
			if strings.Contains(haystack, platform) {
				out = append(out, Integration{Platform: platform, Identifier: entry.Identifier})
				matched = true
				break
			}
		}
		if !matched {
			*diags = append(*diags, Diagnostic{
				SeverityWarning,
				fmt.Sprintf("application %q matches no known platform; dropped", entry.Name),
			})
		}
	}
	return out
}

// validateParameters checks every declared parameter type and default.
func (c *Compiler) validateParameters(params []Parameter) []Diagnostic {
	var diags []Diagnostic
	for _, p := range params {
		t, err := schema.ParseType(p.Type)
		if err != nil {
			diags = append(diags, Diagnostic{
				SeverityError,
				fmt.Sprintf("parameter %q: %v", p.Name, err),
			})
			continue
		}
		if p.Default != nil {
			if err := t.Validate(p.Default); err != nil {
				diags = append(diags, Diagnostic{
					SeverityError,
					fmt.Sprintf("parameter %q default: %v", p.Name, err),
				})
			}
		}
	}
	return diags
}
