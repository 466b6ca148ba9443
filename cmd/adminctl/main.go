package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mineconect/internal/auth"
	"mineconect/internal/database"
)

const usage = `usage: adminctl <command> [flags]

commands:
  create-admin  -email <email> -password <password>
  delete-user   -email <email>
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	users := auth.NewUserRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "create-admin":
		fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
		email := fs.String("email", "", "admin email address")
		password := fs.String("password", "", "admin password")
		_ = fs.Parse(os.Args[2:])
		if *email == "" || *password == "" {
			fs.Usage()
			os.Exit(2)
		}
		createAdmin(ctx, users, *email, *password)
	case "delete-user":
		fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
		email := fs.String("email", "", "email of the account to delete")
		_ = fs.Parse(os.Args[2:])
		if *email == "" {
			fs.Usage()
			os.Exit(2)
		}
		deleteUser(ctx, users, *email)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func createAdmin(ctx context.Context, users *auth.UserRepository, email, password string) {
	hasher := auth.NewBcryptHasher()
	hashed, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, created, err := users.CreateAdmin(ctx, email, hashed)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	if !created {
		log.Printf("user %s already exists, nothing to do", user.Email)
		return
	}
	log.Printf("admin %s created (id %s)", user.Email, user.ID)
}

func deleteUser(ctx context.Context, users *auth.UserRepository, email string) {
	deleted, err := users.DeleteByEmail(ctx, email)
	if err != nil {
		log.Fatalf("delete user: %v", err)
	}
	if !deleted {
		log.Printf("no user with email %s", email)
		return
	}
	log.Printf("user %s deleted (profile removed by cascade)", email)
}
