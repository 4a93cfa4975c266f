package main

import "github.com/m04kA/SMC-RentalService/cmd/command"

func main() {
	command.Execute()
}
