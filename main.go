package main

import "asset-core/cmd"

func main() {
	cmd.Execute()
}
