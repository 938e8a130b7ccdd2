package main

import "fleetmove/cmd"

func main() {
	cmd.Execute()
}
