package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// @title Dafoerum API
// @version 1.0
// @description Forum categories, threads, posts and attachments.
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
