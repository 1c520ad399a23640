package main

import "github.com/JonMunkholm/reportmap/internal/cli"

func main() {
	cli.Execute()
}
