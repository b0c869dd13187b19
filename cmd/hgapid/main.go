package main

import "github.com/heritage-graph/sattal/cmd/hgapid/cmd"

func main() {
	cmd.Execute()
}
