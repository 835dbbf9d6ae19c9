package main

import "github.com/gosh-shell/gosh/cmd"

func main() {
	cmd.Execute()
}
