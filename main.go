package main

import "github.com/edukasiku/ms-go-premium/cmd"

func main() {
	cmd.Execute()
}
