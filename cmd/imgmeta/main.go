package main

import (
	"github.com/nightdust/imgmeta/pkg/cli"
)

func main() {
	cli.Execute()
}
