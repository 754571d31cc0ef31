// Command tokengen mints bearer tokens for the department API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spec-kit/department-service/internal/auth"
	"github.com/spec-kit/department-service/internal/config"
)

func main() {
	subject := flag.String("sub", "dev", "token subject")
	role := flag.String("role", string(auth.RoleAdmin), "role: admin, editor or viewer")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	if !auth.Role(*role).Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	token, expiresAt, err := tokens.GenerateToken(*subject, auth.Role(*role))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Fprintln(os.Stdout, token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}
