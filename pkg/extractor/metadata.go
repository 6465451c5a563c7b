// Package extractor performs deep static analysis of a workflow
// handler module, recovering the semantic metadata (prompts, branch
// conditions, state mutations, model configuration) that a
// documentation or debug UI surfaces next to the visual graph.
package extractor

import "fmt"

// Conventions the extractor keys on. They mirror what generated and
// hand-maintained handler modules actually look like.
const (
	// ContainerSuffix marks the eligible handler container type.
	ContainerSuffix = "Workflow"
	// PromptVar is the conventional prompt-template variable.
	PromptVar = "prompt"
	// DiscriminatorVar is the conventional branch discriminator.
	DiscriminatorVar = "decision"
)

// HandlerPrefixes mark container methods that implement graph nodes.
var HandlerPrefixes = []string{"Node", "Step"}

// StateVars are the conventional mutable state containers whose
// subscript writes are recorded as state mutations.
var StateVars = []string{"state", "memory"}

// ModelConstructors are the recognized model-client constructor names.
var ModelConstructors = []string{"NewClient", "NewChatClient", "NewModel", "NewChatModel", "NewLLM"}

// ConventionSet is the machine-readable form of the conventions above,
// published to clients that generate handler code.
type ConventionSet struct {
	ContainerSuffix   string   `json:"containerSuffix"`
	HandlerPrefixes   []string `json:"handlerPrefixes"`
	PromptVar         string   `json:"promptVar"`
	DiscriminatorVar  string   `json:"discriminatorVar"`
	StateVars         []string `json:"stateVars"`
	ModelConstructors []string `json:"modelConstructors"`
}

// Conventions returns the conventions the extractor matches against.
func Conventions() ConventionSet {
	return ConventionSet{
		ContainerSuffix:   ContainerSuffix,
		HandlerPrefixes:   HandlerPrefixes,
		PromptVar:         PromptVar,
		DiscriminatorVar:  DiscriminatorVar,
		StateVars:         StateVars,
		ModelConstructors: ModelConstructors,
	}
}

// PromptTemplate is one assignment to the prompt variable, with
// embedded expressions rendered as bracketed placeholders.
type PromptTemplate struct {
	Template string `json:"template"`
	Line     int    `json:"line"`
}

// Condition is one recorded if / else-if branch.
type Condition struct {
	Expr   string `json:"expr"`
	Branch string `json:"branch"` // "if" or "else if"
	Line   int    `json:"line"`
}

// StateMutation is a subscript write into one of the state variables.
type StateMutation struct {
	Variable string `json:"variable"` // which state container
	Key      string `json:"key"`
	Value    string `json:"value"` // truncated source text
	Line     int    `json:"line"`
}

// ModelConfig describes a recognized model-client construction.
type ModelConfig struct {
	Constructor string            `json:"constructor"`
	Args        map[string]string `json:"args"`
}

// NodeMetadata is everything recovered from a single handler. It is
// derived, read-only, recomputed on demand, and never persisted here.
type NodeMetadata struct {
	NodeID            string           `json:"nodeId"`
	Method            string           `json:"method"`
	Doc               string           `json:"doc,omitempty"`
	PromptTemplates   []PromptTemplate `json:"promptTemplates,omitempty"`
	Conditions        []Condition      `json:"conditions,omitempty"`
	StateMutations    []StateMutation  `json:"stateMutations,omitempty"`
	ModelConfig       *ModelConfig     `json:"modelConfig,omitempty"`
	BusinessRuleCalls []string         `json:"businessRuleCalls,omitempty"`
	SourceText        string           `json:"sourceText"`
}

// Param is a business-method parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// BusinessMethod is a non-handler method on the container, kept for
// cross-linking from BusinessRuleCalls.
type BusinessMethod struct {
	Name   string  `json:"name"`
	Doc    string  `json:"doc,omitempty"`
	Params []Param `json:"params,omitempty"`
	Source string  `json:"source"`
}

// ClassInfo describes the handler container and its constructor.
type ClassInfo struct {
	Name       string            `json:"name"`
	Doc        string            `json:"doc,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Diagnostic records a recoverable analysis failure: what was being
// looked at and why it was skipped.
type Diagnostic struct {
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Location, d.Reason)
}

// Report is the full extraction result for one module.
type Report struct {
	Class           ClassInfo                `json:"classInfo"`
	Nodes           map[string]*NodeMetadata `json:"nodes"`
	BusinessMethods []BusinessMethod         `json:"businessMethods"`
	Diagnostics     []Diagnostic             `json:"diagnostics,omitempty"`
}

// ExtractError is the structured failure for a module that cannot be
// analyzed at all: unparseable source or no eligible container.
type ExtractError struct {
	Message string
	Err     error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Message, e.Err)
	}
	return "extract: " + e.Message
}

func (e *ExtractError) Unwrap() error { return e.Err }
