package main

import "github.com/djcass44/corbos-scm/cmd"

var version = "0.0.0"

func main() {
	cmd.Execute(version)
}
