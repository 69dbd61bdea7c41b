package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

// Standalone generator for widget API keys. Useful for seeding environments
// by hand: prints the raw secret and the SHA256 the key store persists.
func main() {
	mode := flag.String("mode", "live", "key mode: live or test")
	hexLen := flag.Int("hex-len", 32, "random hex length (must be even)")
	flag.Parse()

	if err := validateInputs(*mode, *hexLen); err != nil {
		log.Fatal(err)
	}

	secret, keyHash, err := buildCredentials(*mode, *hexLen)
	if err != nil {
		log.Fatalf("failed to generate api key: %v", err)
	}

	fmt.Println("Generated widget API key")
	fmt.Printf("API_KEY=%s\n", secret)
	fmt.Printf("KEY_HASH=%s\n", keyHash)
}

func validateInputs(mode string, hexLen int) error {
	if mode != "live" && mode != "test" {
		return fmt.Errorf("invalid mode: %s (allowed: live, test)", mode)
	}
	if hexLen <= 0 || hexLen%2 != 0 {
		return fmt.Errorf("invalid hex-len: %d (must be positive and even)", hexLen)
	}
	return nil
}

func buildCredentials(mode string, hexLen int) (string, string, error) {
	raw, err := generateRandomHex(hexLen)
	if err != nil {
		return "", "", err
	}

	secret := fmt.Sprintf("nw_%s_%s", mode, raw)
	sum := sha256.Sum256([]byte(secret))
	return secret, hex.EncodeToString(sum[:]), nil
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
