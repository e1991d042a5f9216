/*
The nylisp command line REPL.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glycerine/nylisp/nylisp"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("nylisp command line help:\n")
	myflags.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := nylisp.NewNylispConfig("nylisp")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "nylisp command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	nylisp.ReplMain(cfg)
}
