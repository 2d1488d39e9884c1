package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// systemPrompt fixes the three-field output contract: a generalized command
// template, the user's concrete usage, and a purpose description.
const systemPrompt = `You are an expert assistant that analyzes raw user commands and transforms ` +
	`them into a structured JSON object with three fields: 'command', 'usage example', and 'description'. ` +
	`Your primary task is to create a generalized, symbolic rule for the 'command' field, not just copy ` +
	`the user's input. The 'usage example' field should contain the user's specific command, and the ` +
	`'description' should explain the purpose of the command.`

// promptTemplate is the user prompt. The two worked examples establish the
// generalization convention: concrete identifiers become placeholders,
// category names are uppercase, and typos in the literal usage example are
// corrected without changing its meaning.
const promptTemplate = `You are an expert assistant specializing in command-line tools. Your task is to analyze a raw user command, derive a generalized template from it, and format the output into a structured JSON object.

---
**CONTEXT AND EXAMPLES**

Here are some examples of the desired transformation:

**Example 1:**
- **Raw User Command:** "add to gitignore !wip_scripts/ !wip_scirpts/* to see all files in git"
- **Expected JSON Output:**
{
  "category": "GIT",
  "command": "!folder_name/\n!folder_name/*",
  "description": "Excludes a specific folder and its contents from Git tracking, which is useful for ignoring temporary or local files.",
  "usage example": "!wip_scripts/\n!wip_scripts/*"
}

**Example 2:**
- **Raw User Command:** "git checkout -b new_feature_branch to start working on a new feature"
- **Expected JSON Output:**
{
  "category": "GIT",
  "command": "git checkout -b <branch_name>",
  "description": "Creates a new branch and immediately switches to it, allowing for isolated development of a new feature.",
  "usage example": "git checkout -b new_feature_branch"
}

---
**YOUR TASK**

Raw command provided by the user: %q

Existing Categories for Reference:
%s

Full Context of Existing Shortcuts for Reference:
%s

Instructions:
1. Categorize: Determine the most appropriate category. Prioritize using an existing category if it is a good fit. If not, suggest a concise new category. Format all categories in uppercase.
2. Generalize the Command: Create a generalized, symbolic command template. Replace specific names (filenames, folder names, branch names, URLs) with generic placeholders (e.g. <branch_name>, folder_name/*, <file_extension>). This is the value for the "command" key.
3. Define the Usage: The specific user command goes here. Correct any obvious typos from the raw command (e.g. 'restor' becomes 'restore') but preserve its meaning. This is the value for the "usage example" key. Do not add a command description here.
4. Describe the Purpose: Write a clear, one-sentence description that explains what problem the command mitigates or what purpose it serves.

Output Format:
Return a single JSON object with exactly these keys and no surrounding text or code fences:
"category": the chosen or new category name
"command": the generalized, symbolic command template, NOT the raw command
"description": the explanation of the command's purpose
"usage example": the specific, corrected user command`

// buildPrompt renders the user prompt for a raw command against the current
// store. The store is read-only context: categories and all existing entries
// are embedded so the model reuses categories and template conventions.
func buildPrompt(rawCommand string, st *store.Store) (string, error) {
	categories, err := json.MarshalIndent(st.Categories(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal categories: %w", err)
	}

	storeJSON, err := st.MarshalIndent()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(promptTemplate, rawCommand, categories, storeJSON), nil
}
