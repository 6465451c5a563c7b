package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/extractor"
)

func TestReport_Markdown(t *testing.T) {
	report, err := extractor.New().Extract(supportModule)
	require.NoError(t, err)

	md := report.Markdown()

	assert.Contains(t, md, "# SupportWorkflow")
	assert.Contains(t, md, "## Configuration")
	assert.Contains(t, md, "- `timeout` = `30`")
	assert.Contains(t, md, "## Nodes")
	assert.Contains(t, md, "### understand")
	assert.Contains(t, md, "### respond")
	assert.Contains(t, md, "## Business methods")
	assert.Contains(t, md, "### Tier(ticket string)")
	assert.NotContains(t, md, "## Diagnostics")
}
