package main

import "github.com/hyprconf/hyprconf/cmd"

func main() {
	cmd.Execute()
}
