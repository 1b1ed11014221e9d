// Command shopcheck installs browsers, serves the demo store and renders failure reports.
package main

import "github.com/networkteam/shopcheck/internal/cli"

func main() {
	cli.Execute()
}
