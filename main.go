package main

import "github.com/proxima-be/pxbench/cmd"

func main() {
	cmd.Execute()
}
