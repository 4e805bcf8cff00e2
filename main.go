package main

import "github.com/autoemporium/showroom-assistant/cmd"

func main() {
	cmd.Execute()
}
