package main

import "josephlewis.net/gsh/cmd"

func main() {
	cmd.Execute()
}
