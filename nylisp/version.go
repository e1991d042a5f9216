package nylisp

import "fmt"

// version information, set with -ldflags "-X" at build time.
var GITLASTTAG string
var GITLASTCOMMIT string

func Version() string {
	if GITLASTTAG == "" && GITLASTCOMMIT == "" {
		return "dev"
	}
	return fmt.Sprintf("%s/%s", GITLASTTAG, GITLASTCOMMIT)
}
