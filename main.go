package main

import "github.com/0xbrayo/whatdidyougetdone/cmd"

func main() {
	cmd.Execute()
}
