package main

import "github.com/chorusmith/chorusmith/cmd"

func main() {
	cmd.Execute()
}
