package main

import "github.com/theirongolddev/salesboard/cmd"

func main() {
	cmd.Execute()
}
