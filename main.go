package main

import "pipesh/cmd"

func main() {
	cmd.Execute()
}
