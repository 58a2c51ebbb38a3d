package main

import (
	"os"

	"github.com/melih-ucgun/shopsnap/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
