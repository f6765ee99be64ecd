package main

import (
	"github.com/tablake/ingestr/cmd"
)

func main() {
	cmd.Execute()
}
