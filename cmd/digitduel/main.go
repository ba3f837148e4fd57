package main

import (
	"github.com/pveiga/digitduel/internal/cli"
)

func main() {
	cli.Execute()
}
