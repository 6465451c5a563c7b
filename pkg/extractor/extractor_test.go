package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/extractor"
)

const supportModule = `package support

import "fmt"

// SupportWorkflow handles inbound support tickets.
type SupportWorkflow struct {
	client  *llm.Client
	timeout int
}

// NewSupportWorkflow builds the workflow with its model client.
func NewSupportWorkflow() *SupportWorkflow {
	w := &SupportWorkflow{timeout: 30}
	w.client = llm.NewChatClient(llm.Config{Model: "gpt-4o", Temperature: 0.2})
	return w
}

// NodeUnderstand classifies the inbound ticket.
func (w *SupportWorkflow) NodeUnderstand(state map[string]any) map[string]any {
	ticket := state["ticket"].(string)
	prompt := fmt.Sprintf("Classify this support ticket: %s. Customer tier: %s", ticket, w.Tier(ticket))
	decision := w.classify(prompt)
	if decision == "urgent" {
		state["queue"] = "oncall"
	} else if decision == "routine" {
		state["queue"] = "backlog"
	}
	state["decision"] = decision
	return state
}

// NodeRespond drafts a reply.
func (w *SupportWorkflow) NodeRespond(state map[string]any) map[string]any {
	prompt := "Draft a polite reply for: " + state["ticket"].(string)
	state["reply"] = w.client.Complete(prompt)
	return state
}

// Tier looks up the customer tier.
func (w *SupportWorkflow) Tier(ticket string) string {
	return "gold"
}

func (w *SupportWorkflow) classify(prompt string) string {
	return "urgent"
}
`

func TestExtract_FullModule(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	// Container and constructor attributes.
	assert.Equal(t, "SupportWorkflow", report.Class.Name)
	assert.Equal(t, "SupportWorkflow handles inbound support tickets.", report.Class.Doc)
	assert.Equal(t, "30", report.Class.Attributes["timeout"])
	assert.Contains(t, report.Class.Attributes, "client")

	// Handler node IDs derive from the method name minus the prefix.
	require.Len(t, report.Nodes, 2)
	require.Contains(t, report.Nodes, "understand")
	require.Contains(t, report.Nodes, "respond")

	understand := report.Nodes["understand"]
	assert.Equal(t, "NodeUnderstand", understand.Method)
	assert.Equal(t, "NodeUnderstand classifies the inbound ticket.", understand.Doc)
	assert.NotEmpty(t, understand.SourceText)

	// Non-handler receiver methods are business methods.
	names := make([]string, 0, len(report.BusinessMethods))
	for _, m := range report.BusinessMethods {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"Tier", "classify"}, names)

	assert.Empty(t, report.Diagnostics)
}

func TestExtract_PromptTemplates(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	understand := report.Nodes["understand"]
	require.Len(t, understand.PromptTemplates, 1)
	// Sprintf verbs render as bracketed argument placeholders.
	assert.Equal(t,
		"Classify this support ticket: [ticket]. Customer tier: [w.Tier(ticket)]",
		understand.PromptTemplates[0].Template)

	respond := report.Nodes["respond"]
	require.Len(t, respond.PromptTemplates, 1)
	// String concatenation keeps literals verbatim and brackets the rest.
	assert.Equal(t,
		`Draft a polite reply for: [state["ticket"].(string)]`,
		respond.PromptTemplates[0].Template)
}

func TestExtract_Conditions(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	conds := report.Nodes["understand"].Conditions
	require.Len(t, conds, 2)
	assert.Equal(t, `decision == "urgent"`, conds[0].Expr)
	assert.Equal(t, "if", conds[0].Branch)
	assert.Equal(t, `decision == "routine"`, conds[1].Expr)
	assert.Equal(t, "else if", conds[1].Branch)
}

func TestExtract_StateMutations(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	muts := report.Nodes["understand"].StateMutations
	require.Len(t, muts, 3)
	keys := make([]string, 0, len(muts))
	for _, m := range muts {
		assert.Equal(t, "state", m.Variable)
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"queue", "queue", "decision"}, keys)
	assert.Equal(t, `"oncall"`, muts[0].Value)
}

func TestExtract_ModelConfig(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	// The constructor call is recorded against the class attributes
	// walk; handlers carry their own config when they construct one.
	require.NotNil(t, report.Class.Attributes)

	src := `package m

type ChatWorkflow struct{}

func (w *ChatWorkflow) NodeAsk(state map[string]any) map[string]any {
	model := openai.NewChatModel(openai.Options{Model: "gpt-4o-mini", MaxTokens: 512})
	_ = model
	return state
}
`
	report, err = extractor.New().Extract(src)
	require.NoError(t, err)

	ask := report.Nodes["ask"]
	require.NotNil(t, ask)
	require.NotNil(t, ask.ModelConfig)
	assert.Equal(t, "openai.NewChatModel", ask.ModelConfig.Constructor)
	assert.Equal(t, `"gpt-4o-mini"`, ask.ModelConfig.Args["Model"])
	assert.Equal(t, "512", ask.ModelConfig.Args["MaxTokens"])
}

func TestExtract_BusinessRuleCalls(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	understand := report.Nodes["understand"]
	// Receiver-method calls, sorted, handler methods excluded.
	assert.Equal(t, []string{"Tier", "classify"}, understand.BusinessRuleCalls)
}

func TestExtract_NoContainer(t *testing.T) {
	_, err := extractor.New().Extract("package empty\n\nfunc Loose() {}\n")
	require.Error(t, err)

	var xerr *extractor.ExtractError
	require.ErrorAs(t, err, &xerr)
	assert.Contains(t, xerr.Message, "no handler container")
}

func TestExtract_UnparseableSource(t *testing.T) {
	_, err := extractor.New().Extract("not go at all {{{")
	require.Error(t, err)

	var xerr *extractor.ExtractError
	require.ErrorAs(t, err, &xerr)
	assert.Contains(t, xerr.Message, "does not parse")
}

func TestExtract_StepPrefixAlsoMatches(t *testing.T) {
	src := `package m

type EtlWorkflow struct{}

func (w *EtlWorkflow) StepLoad(state map[string]any) map[string]any { return state }
`
	report, err := extractor.New().Extract(src)
	require.NoError(t, err)

	require.Contains(t, report.Nodes, "load")
	assert.Equal(t, "StepLoad", report.Nodes["load"].Method)
}

func TestConventions(t *testing.T) {
	c := extractor.Conventions()
	assert.Equal(t, "Workflow", c.ContainerSuffix)
	assert.Contains(t, c.HandlerPrefixes, "Node")
	assert.Contains(t, c.StateVars, "memory")
}
