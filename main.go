package main

import "github.com/longkey1/sitechat/cmd"

func main() {
	cmd.Execute()
}
