package main

import "github.com/thiagokokada/gitmeta/cmd"

func main() {
	cmd.Execute()
}
