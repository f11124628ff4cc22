package text

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Prompt sources
const (
	SourceLiteral = "literal"
	SourceFile    = "file"
)

// promptExtensions are the file extensions treated as prompt files.
var promptExtensions = []string{".txt"}

// Prompt is the narration text handed to the pipeline.
type Prompt struct {
	Text   string
	Source string // SourceLiteral or SourceFile
	Path   string // set when Source is SourceFile
}

// LoadPrompt resolves the prompt argument. When arg names an existing text file the
// file contents are returned with blank lines stripped; otherwise arg itself is the prompt.
func LoadPrompt(arg string) (Prompt, error) {
	if !isPromptFile(arg) {
		return Prompt{Text: arg, Source: SourceLiteral}, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to read prompt file %q: %w", arg, err)
	}

	return Prompt{
		Text:   JoinNonBlankLines(string(data)),
		Source: SourceFile,
		Path:   arg,
	}, nil
}

func isPromptFile(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	matched := false
	for _, e := range promptExtensions {
		if ext == e {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}
