package github_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openforge-dev/openforge-backend/internal/github"
)

func TestReadmeTemplate(t *testing.T) {
	readme := github.ReadmeTemplate("demo-app", "", []string{"Python", "React"})
	assert.True(t, strings.HasPrefix(readme, "# demo-app\n"))
	assert.Contains(t, readme, "A new open-source project created with OpenForge")
	assert.Contains(t, readme, "- Python")
	assert.Contains(t, readme, "- React")

	empty := github.ReadmeTemplate("x", "my description", nil)
	assert.Contains(t, empty, "my description")
	assert.Contains(t, empty, "- (To be added)")
}

func TestGitignoreTemplate(t *testing.T) {
	py := github.GitignoreTemplate([]string{"Python"})
	assert.Contains(t, py, "__pycache__/")
	assert.NotContains(t, py, "node_modules/")

	node := github.GitignoreTemplate([]string{"TypeScript"})
	assert.Contains(t, node, "node_modules/")
	assert.NotContains(t, node, "__pycache__/")

	// The general section is always present.
	plain := github.GitignoreTemplate(nil)
	assert.Contains(t, plain, ".DS_Store")
	assert.Contains(t, plain, ".vscode/")
}
