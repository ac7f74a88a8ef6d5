package main

import "github.com/sw33tLie/geoshare/cmd"

func main() {
	cmd.Execute()
}
