package main

import "github.com/dotcommander/zodkit/cmd"

func main() {
	cmd.Execute()
}
