package main

import (
	"os"

	"github.com/schemamorph/pgmigrate/cmd/ptahctl"
)

func main() {
	ptahctl.Execute(os.Args[1:]...)
}
