package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/config"
)

// issue-token mints an access token signed with the configured JWT secret,
// for smoke tests and operator access when the identity provider is down.
func main() {
	var (
		userID   int64
		role     string
		email    string
		fullName string
	)

	flag.Int64Var(&userID, "user", 0, "User id placed in the token subject")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "Role claim (ADMIN, REGISTRAR, COUNSELOR, NURSE, TEACHER)")
	flag.StringVar(&email, "email", "", "Email claim")
	flag.StringVar(&fullName, "name", "", "Full name claim")
	flag.Parse()

	r := models.UserRole(strings.ToUpper(role))
	if userID <= 0 || !r.Valid() {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	token, expiresAt, err := tokens.Issue(userID, r, email, fullName)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Println(token)
}
