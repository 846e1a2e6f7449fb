package main

import (
	"log"

	"github.com/Nyaguthii-C/LetsChat/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
