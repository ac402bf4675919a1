// p2000 - P2000 Paging Log Browser
//
// p2000 parses P2000 emergency paging logs into structured messages and
// lets you browse, search and summarize them in the terminal.
package main

import (
	"os"

	"github.com/ccollicutt/p2000/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
