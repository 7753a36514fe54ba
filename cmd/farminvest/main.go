package main

import "github.com/sheikh-saqib/farminvest/internal/cli"

func main() {
	cli.Execute()
}
