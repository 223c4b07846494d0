package main

import "github.com/nlxchange/intent-engine/cmd"

func main() {
	cmd.Execute()
}
