package main

import (
	"os"

	"github.com/gitwarp/warp/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
