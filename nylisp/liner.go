package nylisp

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/glycerine/liner"
	"github.com/sahilm/fuzzy"
)

const historyName = ".nylisphist"

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyName
	}
	return filepath.Join(home, historyName)
}

// lineSource is where the repl gets its input: liner on a terminal, or a
// plain reader.
type lineSource interface {
	Getline(prompt string) (string, error)
	Close()
}

type Prompter struct {
	prompter *liner.State
	history  string
}

func NewPrompter(env *Nylisp) *Prompter {
	p := &Prompter{
		prompter: liner.NewLiner(),
		history:  historyPath(),
	}
	p.prompter.SetCtrlCAborts(false)
	p.prompter.SetCompleter(func(line string) []string {
		return completions(env, line)
	})

	if f, err := os.Open(p.history); err == nil {
		p.prompter.ReadHistory(f)
		f.Close()
	}
	return p
}

func (p *Prompter) Close() {
	defer p.prompter.Close()
	if f, err := os.Create(p.history); err != nil {
		log.Print("Error writing history file: ", err)
	} else {
		p.prompter.WriteHistory(f)
		f.Close()
	}
}

func (p *Prompter) Getline(prompt string) (string, error) {
	line, err := p.prompter.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		p.prompter.AppendHistory(line)
	}
	return line, nil
}

var dotCommands = []string{".ast", ".cache", ".clear", ".ls", ".quit", ".trace", ".verb"}

// completions ranks every name visible from the global scope, plus the
// special forms and dot-commands, against the word under the cursor.
func completions(env *Nylisp, line string) []string {
	start := strings.LastIndexAny(line, " \t") + 1
	for _, d := range env.vocab.Delimiters() {
		if i := strings.LastIndex(line, d); i >= 0 && i+len(d) > start {
			start = i + len(d)
		}
	}
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var candidates []string
	if start == 0 && strings.HasPrefix(word, ".") {
		candidates = dotCommands
	} else {
		candidates = append(env.global.VisibleNames(), env.vocab.SpecialForms()...)
	}

	var c []string
	for _, m := range fuzzy.Find(word, candidates) {
		c = append(c, prefix+m.Str)
	}
	return c
}
