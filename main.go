package main

import "github.com/LegacyCodeHQ/stylegraph/cmd"

func main() {
	cmd.Execute()
}
