// Command hashtoken prints the bcrypt hash of an API token for use as
// API_TOKEN_HASH. The token itself is never stored anywhere.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exedev/contentd/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <token>\n", os.Args[0])
		os.Exit(2)
	}

	hash, err := auth.HashToken(os.Args[1])
	if err != nil {
		log.Fatalf("failed to hash token: %v", err)
	}
	fmt.Println(hash)
}
