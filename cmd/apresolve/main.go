// Command apresolve resolves, inspects and canonicalizes ActivityPub objects.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
