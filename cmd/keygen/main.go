// Command keygen writes a fresh RSA key pair in the PEM layout the token
// codec expects.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"log"
	"os"
)

func main() {
	privatePath := flag.String("private", "keys/private.pem", "path for the private key")
	publicPath := flag.String("public", "keys/public.pem", "path for the public key")
	bits := flag.Int("bits", 2048, "RSA key size")
	flag.Parse()

	key, err := rsa.GenerateKey(rand.Reader, *bits)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		log.Fatalf("marshal public key: %v", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	if err := os.WriteFile(*privatePath, privatePEM, 0o600); err != nil {
		log.Fatalf("write private key: %v", err)
	}
	if err := os.WriteFile(*publicPath, publicPEM, 0o644); err != nil {
		log.Fatalf("write public key: %v", err)
	}

	log.Printf("wrote %s and %s", *privatePath, *publicPath)
}
