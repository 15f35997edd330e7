package main

import "nathanbeddoewebdev/namectl/cmd"

func main() {
	cmd.Execute()
}
