package main

import (
	"flag"
	"fmt"
	"log"

	"docstack.backend/pkg/crypto"
)

// Generates an API key secret out of band, for seeding environments where no
// dashboard session exists yet. Prints the plaintext once along with the hash
// to insert into the key registry.
func main() {
	count := flag.Int("count", 1, "number of keys to generate")
	flag.Parse()

	if *count <= 0 {
		log.Fatalf("invalid count: %d (must be positive)", *count)
	}

	for i := 0; i < *count; i++ {
		secret, err := crypto.GenerateApiKeySecret()
		if err != nil {
			log.Fatalf("failed to generate secret: %v", err)
		}

		fmt.Println("Generated API credential")
		fmt.Printf("API_KEY=%s\n", secret)
		fmt.Printf("KEY_HASH=%s\n", crypto.HashApiKeySecret(secret))
		fmt.Printf("KEY_MASKED=%s\n", crypto.MaskApiKeySecret(secret))
	}
}
