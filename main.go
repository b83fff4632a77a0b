package main

import "db-move/cmd"

func main() {
	cmd.Execute()
}
