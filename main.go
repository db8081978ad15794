package main

import (
	"Framecast/cmd"
)

func main() {
	cmd.Execute()
}
