package main

import "github.com/javi11/greetbuf/cmd/greetbuf/cmd"

func main() {
	cmd.Execute()
}
