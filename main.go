package main

import "sync-verifier/cmd"

func main() {
	cmd.Execute()
}
