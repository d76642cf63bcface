package main

import "github.com/busmap/sv2ipxact/cmd/svipxact/cmd"

func main() {
	cmd.Execute()
}
