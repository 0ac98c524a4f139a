package main

import "github.com/user/caption-studio-cli/cmd"

func main() {
	cmd.Execute()
}
