package github

import (
	"fmt"
	"strings"
)

// ReadmeTemplate renders the seed README.md for a newly provisioned
// repository.
func ReadmeTemplate(name, description string, techStack []string) string {
	if description == "" {
		description = "A new open-source project created with OpenForge"
	}

	techList := "- (To be added)"
	if len(techStack) > 0 {
		items := make([]string, len(techStack))
		for i, tech := range techStack {
			items[i] = "- " + tech
		}
		techList = strings.Join(items, "\n")
	}

	return fmt.Sprintf(`# %s

%s

## Tech Stack

%s

## Getting Started

[Add setup instructions here]

## Contributing

This project uses the `+"`openforge-demo`"+` topic. Join us on [OpenForge](https://openforge.dev)!

## License

[Add license information]
`, name, description, techList)
}

const pythonGitignore = `# Python
__pycache__/
*.py[cod]
*$py.class
*.so
.Python
build/
develop-eggs/
dist/
downloads/
eggs/
.eggs/
lib/
lib64/
parts/
sdist/
var/
wheels/
*.egg-info/
.installed.cfg
*.egg
.env
.venv
env/
venv/
ENV/
env.bak/
venv.bak/`

const nodeGitignore = `# Node
node_modules/
npm-debug.log*
yarn-debug.log*
yarn-error.log*
.npm
.next/
dist/
build/
.cache/`

const generalGitignore = `# IDE
.vscode/
.idea/
*.swp
*.swo
*~

# OS
.DS_Store
.DS_Store?
._*
.Spotlight-V100
.Trashes
ehthumbs.db
Thumbs.db

# Logs
*.log
logs/`

var (
	pythonTechs = map[string]bool{"python": true, "fastapi": true, "django": true, "flask": true, "pytest": true}
	nodeTechs   = map[string]bool{"node": true, "nodejs": true, "javascript": true, "typescript": true, "react": true, "next": true, "vue": true, "angular": true}
)

// GitignoreTemplate renders a .gitignore matched to the project's declared
// tech stack.
func GitignoreTemplate(techStack []string) string {
	var sections []string

	if matchesAny(techStack, pythonTechs) {
		sections = append(sections, pythonGitignore)
	}
	if matchesAny(techStack, nodeTechs) {
		sections = append(sections, nodeGitignore)
	}
	sections = append(sections, generalGitignore)

	return strings.Join(sections, "\n\n")
}

func matchesAny(techStack []string, known map[string]bool) bool {
	for _, tech := range techStack {
		if known[strings.ToLower(tech)] {
			return true
		}
	}
	return false
}
