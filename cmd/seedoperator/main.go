// seedoperator creates a store and an admin operator for a fresh deployment.
//
//	go run ./cmd/seedoperator -store "Main Street" -username admin -password <pw>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/haroldrospa/Cobroapp-sub000/internal/config"
	"github.com/haroldrospa/Cobroapp-sub000/internal/infra"
	"github.com/haroldrospa/Cobroapp-sub000/internal/model"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	storeName := flag.String("store", "Main Store", "store name to create")
	username := flag.String("username", "admin", "admin username")
	name := flag.String("name", "Administrator", "display name")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "error: -password is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "database:", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bcrypt:", err)
		os.Exit(1)
	}

	store := &model.Store{Name: *storeName, Active: true}
	if err := db.Create(store).Error; err != nil {
		fmt.Fprintln(os.Stderr, "create store:", err)
		os.Exit(1)
	}

	op := &model.Operator{
		Username:     *username,
		Name:         *name,
		PasswordHash: string(hash),
		Role:         "admin",
		StoreID:      &store.ID,
		Active:       true,
	}
	if err := db.Create(op).Error; err != nil {
		fmt.Fprintln(os.Stderr, "create operator:", err)
		os.Exit(1)
	}

	fmt.Printf("store %s (%s)\noperator %s (%s)\n", store.Name, store.ID, op.Username, op.ID)
}
