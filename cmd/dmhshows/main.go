package main

import "github.com/Carvalth/dmhshows/internal/cli"

func main() {
	cli.Execute()
}
