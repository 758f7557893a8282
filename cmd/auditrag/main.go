package main

import "auditrag/internal/cli"

func main() {
	cli.Execute()
}
