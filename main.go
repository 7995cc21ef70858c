package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-authgate/authchain/internal/bootstrap"
	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/version"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	case "hash-password":
		if len(args) != 2 {
			fmt.Println("Usage: hash-password <password>")
			os.Exit(1)
		}
		hashPassword(args[1])
	case "version":
		version.PrintVersion()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Username/password authentication gateway with request filter chains")
	fmt.Println("\nCommands:")
	fmt.Println("  server                   Start the HTTP server")
	fmt.Println("  hash-password <password> Print a bcrypt hash for STATIC_USERS_FILE")
	fmt.Println("  version                  Show version information")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	cfg := config.Load()
	if err := bootstrap.Run(context.Background(), cfg); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
}

func hashPassword(password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(string(hash))
}
