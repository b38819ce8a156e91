package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

// Generates a fresh 32-byte key for ENCRYPTION_KEY, base64-encoded.
func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}
	fmt.Println(base64.StdEncoding.EncodeToString(key))
}
