package main

import "github.com/debian-rust/deb-rust-sec/cmd"

func main() {
	cmd.Execute()
}
