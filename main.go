/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tieubaoca/docchat-be/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to load .env file: %v", err)
		}
	}
	cmd.Execute()
}
