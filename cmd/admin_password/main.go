package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pageza/opskrifter/internal/service"
)

// Prints a bcrypt hash for ADMIN_PASSWORD_HASH. The password is read from
// -password or from the first line of stdin.
func main() {
	password := flag.String("password", "", "Admin password to hash")
	flag.Parse()

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read password: %v", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}
	if len(*password) < 8 {
		log.Fatal("Password must be at least 8 characters")
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(hash)
}
