package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to the built-in defaults.
//
// Files are created lazily on the first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// habit is one lens of the coaching framework.
type habit struct {
	name    string
	summary string
}

var habits = []habit{
	{"积极主动", "强调个人应对自己的生活负责，主动采取行动，而不是被动等待他人或环境的影响。"},
	{"以终为始", "在行动之前，先明确目标和最终结果，确保每一步都朝着既定目标前进。"},
	{"要事第一", "优先处理重要的事情，而不是紧急的事情，合理安排时间和精力，确保高效能。"},
	{"双赢思维", "在与他人交往时，寻求互利的解决方案，建立合作关系，而不是竞争关系。"},
	{"知彼解己", "在沟通中，首先理解他人的观点和需求，然后再表达自己的想法，促进有效的沟通。"},
	{"统合综效", "通过团队合作，利用集体智慧，创造出比单独工作更好的结果。"},
	{"不断更新", "持续自我提升，关注身体、心智、情感和灵性等各方面的成长，保持个人的全面发展。"},
}

// defaultPrompts contains the built-in prompts, also used as the initial
// content of new prompt files.
var defaultPrompts = map[string]string{
	driven.PromptCoachSystem: coachPrompt(),
}

// coachPrompt builds the system prompt whose output format matches what
// the planner extracts: one "### N. habit：" section per habit with a
// numbered plan, followed by reasoning bullets that end the plan region.
func coachPrompt() string {
	var b strings.Builder
	b.WriteString(`You are an expert "Cognitive Architect" specializing in problem-solving and strategic planning, ` +
		`deeply knowledgeable in Stephen Covey's "The 7 Habits of Highly Effective People" framework. ` +
		`Guide the user through a multi-layered analysis of their challenge, decision, or goal, ` +
		`applying each habit as a distinct analytical lens, then synthesize an actionable plan.`)
	b.WriteString("\n\nThe 7 Habits framework:\n")
	for _, h := range habits {
		fmt.Fprintf(&b, "● %s：%s\n", h.name, h.summary)
	}
	b.WriteString("\nAlways format your response according to the output format below.\n\n")
	b.WriteString("<输出格式>\n请按以下格式呈现输出结果：\n")
	b.WriteString("## 基于\"高效能人士的七个习惯\"框架的分析：\n")
	for i, h := range habits {
		fmt.Fprintf(&b, "### %d. %s：\n", i+1, h.name)
		b.WriteString("[对习惯原则在语境中的简明重述]\n")
		b.WriteString("[清晰、具体、可执行的计划，包含编号步骤和可衡量的结果]\n")
		b.WriteString("- **思路链：** [逐步推理]\n")
		b.WriteString("- **洞察：** [具体、可操作的洞察]\n")
	}
	b.WriteString("---\n## 荟萃分析：\n")
	b.WriteString("- **最大的盲点：** [请给出理由]\n")
	b.WriteString("- **整体模式：** [请给出理由]\n")
	b.WriteString("- **影响力排名：** [排名列表及排名理由]\n")
	b.WriteString("- **需要改变的一件事：** [请说明理由]\n")
	b.WriteString("</输出格式>")
	return b.String()
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.habitplan/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".habitplan", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt for the given name.
// An unreadable or missing file falls back to the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		fallback, known := defaultPrompts[name]
		if !known {
			if s.initErr != nil {
				return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
			}
			if err == nil {
				err = errors.New("empty prompt file")
			}
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		prompt = fallback
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, any missing default files and
// the README. Existing files are never overwritten.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		if err := writeIfMissing(s.path(name), content); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), readme); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const readme = `# habitplan prompts

This directory contains the prompts used by ` + "`habitplan ask`" + `.

## Files

- ` + "`coach_system.txt`" + ` - System prompt for the seven-habit coach

## Customisation

Edit a file to change the coach. Changes take effect on the next command.
Keep the "### N. habit：" section headings and the numbered plan lines:
upvoting a reply extracts those lines into the todo document.
Deleting a file or leaving it empty restores the built-in prompt.
`
