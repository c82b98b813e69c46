package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/itchan-dev/wall/backend/internal/service"
	"github.com/itchan-dev/wall/shared/utils"
)

func main() {
	var password string
	flag.StringVar(&password, "password", "", "admin password to hash with bcrypt")
	flag.Parse()

	sessionSecret, err := utils.GenerateSecret()
	if err != nil {
		log.Fatalf("Failed to generate session secret: %v", err)
	}
	mediaKey, err := utils.GenerateSecret()
	if err != nil {
		log.Fatalf("Failed to generate media signing key: %v", err)
	}

	fmt.Println("Add these to your config/private.yaml:")
	fmt.Println()
	fmt.Printf("session_secret: %q\n", sessionSecret)
	fmt.Printf("media_signing_key: %q\n", mediaKey)

	if password != "" {
		hash, err := service.AdminPasswordHash(password, "")
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Printf("admin_password_hash: %q\n", hash)
	}

	fmt.Println()
	fmt.Println("Rotating session_secret logs the admin out. Rotating media_signing_key breaks links already handed out.")
}
