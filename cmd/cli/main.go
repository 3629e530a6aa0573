package main

import "github.com/mchmarny/hiscore/pkg/cli"

func main() {
	cli.Execute()
}
