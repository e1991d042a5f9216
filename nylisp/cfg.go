package nylisp

import (
	"flag"
	"fmt"
)

// configure a nylisp interpreter and repl
type NylispConfig struct {
	Flags         *flag.FlagSet
	Command       string
	ExitOnFailure bool
	Quiet         bool
	Trace         bool

	// liner needs a real terminal; read plain lines from stdin instead.
	NoLiner bool
	Prompt  string // default "nylisp> "

	VocabFile string
	Vocab     *Vocabulary

	Format string // text, json or msgpack

	// Lexical makes closures capture their defining scope. Off by
	// default: free variables resolve through the caller.
	Lexical bool

	// EagerIf evaluates both branches of if before choosing.
	EagerIf bool

	Seed           int64
	ParseCacheSize int

	ProfileMode string
	ProfilePath string
}

const DefaultParseCacheSize = 64

func NewNylispConfig(cmdname string) *NylispConfig {
	return &NylispConfig{
		Flags:          flag.NewFlagSet(cmdname, flag.ExitOnError),
		Format:         "text",
		ParseCacheSize: DefaultParseCacheSize,
	}
}

// call DefineFlags before myflags.Parse()
func (c *NylispConfig) DefineFlags() {
	c.Flags.StringVar(&c.Command, "c", "", "expressions to evaluate")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the version banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "trace every evaluation step (very verbose)")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read plain lines from stdin instead of using line editing")
	c.Flags.StringVar(&c.VocabFile, "vocab", "", "yaml file replacing the reserved tokens")
	c.Flags.StringVar(&c.Format, "format", "text", "result format: text, json or msgpack")
	c.Flags.BoolVar(&c.Lexical, "lexical", false, "closures capture their defining scope")
	c.Flags.BoolVar(&c.EagerIf, "eagerif", false, "evaluate both branches of if")
	c.Flags.Int64Var(&c.Seed, "seed", 0, "seed for random (0 means time based)")
	c.Flags.IntVar(&c.ParseCacheSize, "parsecache", DefaultParseCacheSize, "number of parsed inputs to remember")
	c.Flags.StringVar(&c.ProfileMode, "profile", "", "profile mode: cpu, mem, block, mutex, goroutine, trace")
	c.Flags.StringVar(&c.ProfilePath, "profilepath", "", "directory for profile output")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *NylispConfig) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "nylisp> "
	}
	switch c.Format {
	case "":
		c.Format = "text"
	case "text", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format '%s'", c.Format)
	}
	if c.ProfileMode != "" {
		if _, ok := profileModes[c.ProfileMode]; !ok {
			return fmt.Errorf("unknown profile mode '%s'", c.ProfileMode)
		}
	}
	if c.ParseCacheSize < 0 {
		return fmt.Errorf("parsecache must not be negative")
	}
	if c.VocabFile != "" {
		v, err := LoadVocabulary(c.VocabFile)
		if err != nil {
			return err
		}
		c.Vocab = v
	}
	if c.Vocab == nil {
		c.Vocab = DefaultVocabulary()
	}
	return c.Vocab.Validate()
}
