package main

import "github.com/philipparndt/guideline/cmd"

func main() {
	cmd.Execute()
}
