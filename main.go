package main

import (
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api"
)

var envPath string = "."

func main() {
	server := api.NewServer(envPath)
	server.Start()
}
