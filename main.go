package main

import (
	"github.com/olivierh59500/cosmic-orb-go/cmd"
)

func main() {
	cmd.Execute()
}
