// Package main provides the entry point for the job-readiness service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Student job-readiness scoring service",
	Long:  "Scores student skill profiles against stored job postings, clusters the job corpus into role families, and serves the results over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
