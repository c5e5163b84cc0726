package main

import "github.com/exograph/exoschema/cmd"

func main() {
	cmd.Execute()
}
