package main

import "github.com/openvaults/vaultctl/cmd"

func main() {
	cmd.Execute()
}
