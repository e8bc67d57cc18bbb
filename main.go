package main

import "portfolio-cms/cmd"

func main() {
	cmd.Execute()
}
