package main

import "github.com/theirongolddev/revdash/cmd"

func main() {
	cmd.Execute()
}
