package main

import "github.com/hupe1980/sparsego/cmd/sparsebench/cmd"

func main() {
	cmd.Execute()
}
