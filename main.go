package main

import "github.com/mreeves/fosterhub/cmd"

func main() {
	cmd.Execute()
}
