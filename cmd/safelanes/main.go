// SPDX-License-Identifier: MIT

// Command safelanes computes faction safe lanes for a universe described in
// YAML or stored in SQLite.
//
//	safelanes generate --seed 7 --systems 40 -o galaxy.yaml
//	safelanes compute -u galaxy.yaml
//	safelanes lanes -u galaxy.yaml --faction Empire --standing friendly
//	safelanes apply-diff -u galaxy.yaml -o patched.yaml war.yaml
//	safelanes import galaxy.yaml galaxy.db
//	safelanes watch -u galaxy.db --diffs ./diffs
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
