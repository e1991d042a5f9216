package nylisp

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/shurcooL/go-goon"
)

var continuationPrompt = "... "

var profileModes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

// FormatResult renders one value as text, json, or hex encoded msgpack.
func FormatResult(env *Nylisp, x Sexp, format string) (string, error) {
	switch format {
	case "", "text":
		return env.show(x), nil
	case "json":
		return SexpToJson(x)
	case "msgpack":
		by, err := SexpToMsgpack(x)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(by), nil
	}
	return "", fmt.Errorf("unknown format '%s'", format)
}

// RunOutput runs text and renders what a host would display: one line
// per result, or a single line naming the stage that failed. ok is
// false exactly when that single line is an error.
func (env *Nylisp) RunOutput(text string, format string) (lines []string, ok bool) {
	results, err := env.Run(text)
	if err != nil {
		if KindOf(err) == NoInputErr {
			return []string{"ERR<tokenizer>: " + err.Error()}, false
		}
		return []string{"ERR<parser>: " + err.Error()}, false
	}
	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return []string{"ERR<evaluator>: " + r.Err.Error()}, false
		}
		s, err := FormatResult(env, r.Expr, format)
		if err != nil {
			return []string{"ERR<evaluator>: " + err.Error()}, false
		}
		out = append(out, s)
	}
	return out, true
}

// NeedsMoreInput reports whether text ends inside an open list or
// right after a quote.
func (env *Nylisp) NeedsMoreInput(text string) bool {
	return env.lexer.NeedsMoreInput(env.Tokenize(text))
}

type plainSource struct {
	reader *bufio.Reader
	out    io.Writer
}

func (s *plainSource) Getline(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *plainSource) Close() {}

// getExpression reads lines until the open and close tokens balance.
func getExpression(env *Nylisp, src lineSource, prompt string) (string, error) {
	line, err := src.Getline(prompt)
	if err != nil {
		return "", err
	}
	for !strings.HasPrefix(strings.TrimSpace(line), ".") && env.NeedsMoreInput(line) {
		nextline, err := src.Getline(continuationPrompt)
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

// ReplOn runs the read-eval-print loop reading plain lines from in. It
// returns nil at end of input or on .quit.
func ReplOn(env *Nylisp, cfg *NylispConfig, in io.Reader, out io.Writer) error {
	src := &plainSource{reader: bufio.NewReader(in), out: out}
	return replLoop(env, cfg, src, out)
}

func Repl(env *Nylisp, cfg *NylispConfig) error {
	if !cfg.Quiet {
		fmt.Printf("nylisp version %s\n", Version())
		fmt.Printf("press tab to get completion suggestions. Ctrl-d to exit.\n")
	}
	if cfg.NoLiner {
		return ReplOn(env, cfg, os.Stdin, os.Stdout)
	}
	pr := NewPrompter(env)
	defer pr.Close()
	return replLoop(env, cfg, pr, os.Stdout)
}

func replLoop(env *Nylisp, cfg *NylispConfig, src lineSource, out io.Writer) error {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "nylisp> "
	}
	for {
		line, err := getExpression(env, src, prompt)
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Fields(line)
		first := parts[0]
		if strings.HasPrefix(first, ".") {
			if first == ".quit" {
				return nil
			}
			dotCommand(env, first, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), first)), out)
			continue
		}

		lines, _ := env.RunOutput(line, cfg.Format)
		for _, s := range lines {
			fmt.Fprintln(out, s)
		}
	}
}

func dotCommand(env *Nylisp, cmd string, rest string, out io.Writer) {
	switch cmd {
	case ".ls":
		fmt.Fprint(out, env.global.Show(env.vocab, "global"))
	case ".ast":
		tokens := env.Tokenize(rest)
		if len(tokens) == 0 {
			fmt.Fprintln(out, "ERR<tokenizer>: no input")
			return
		}
		for _, r := range env.Parse(tokens) {
			if r.Err != nil {
				fmt.Fprintln(out, "ERR<parser>: "+r.Err.Error())
				return
			}
			goon.Fdump(out, r.Expr)
		}
	case ".clear":
		env.Clear()
		fmt.Fprintln(out, "global scope reset.")
	case ".trace":
		env.SetTrace(!env.Tracing())
		fmt.Fprintf(out, "trace: %v.\n", env.Tracing())
	case ".verb":
		Verbose = !Verbose
		fmt.Fprintf(out, "verbose: %v.\n", Verbose)
	case ".cache":
		st := env.ParseCacheStats()
		fmt.Fprintf(out, "parse cache: %d entries, %d hits, %d misses.\n", st.Size, st.Hits, st.Misses)
	default:
		fmt.Fprintf(out, "unknown command %s\n", cmd)
	}
}

func runScript(env *Nylisp, fname string, cfg *NylispConfig) bool {
	by, err := os.ReadFile(fname)
	if err != nil {
		fmt.Println(err)
		return false
	}
	lines, ok := env.RunOutput(string(by), cfg.Format)
	for _, s := range lines {
		fmt.Println(s)
	}
	return ok
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *NylispConfig) {
	code := replMain(cfg)
	if code != 0 {
		os.Exit(code)
	}
}

func replMain(cfg *NylispConfig) int {
	if cfg.ProfileMode != "" {
		opts := []func(*profile.Profile){profileModes[cfg.ProfileMode], profile.NoShutdownHook}
		if cfg.ProfilePath != "" {
			opts = append(opts, profile.ProfilePath(cfg.ProfilePath))
		}
		if cfg.Quiet {
			opts = append(opts, profile.Quiet)
		}
		defer profile.Start(opts...).Stop()
	}

	env := NewNylispWithConfig(cfg)

	if cfg.Command != "" {
		lines, ok := env.RunOutput(cfg.Command, cfg.Format)
		if !ok {
			fmt.Fprintln(os.Stderr, lines[0])
			return 1
		}
		for _, s := range lines {
			fmt.Println(s)
		}
		return 0
	}

	args := cfg.Flags.Args()
	if len(args) > 0 {
		ok := runScript(env, args[0], cfg)
		if ok {
			return 0
		}
		if cfg.ExitOnFailure {
			return 1
		}
	}

	err := Repl(env, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
