// Command gitnano is the driver binary: it parses arguments and
// dispatches to the cli command tree (§6's "external driver").
package main

import "github.com/VandeeFeng/GitNano/cli"

func main() {
	cli.Execute()
}
