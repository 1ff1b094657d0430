package main

import (
	"ClipFM/cmd"
)

func main() {
	cmd.Execute()
}
