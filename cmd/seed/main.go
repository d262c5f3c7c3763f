// Command seed prepares a fresh database: schema migration, the built-in
// roles, and an initial superuser taken from the environment.
package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SmirnovaT/Auth-sprint-2/internal/config"
	"github.com/SmirnovaT/Auth-sprint-2/internal/database"
	"github.com/SmirnovaT/Auth-sprint-2/internal/domain"
	"github.com/SmirnovaT/Auth-sprint-2/internal/repository"
)

func main() {
	cfg, err := config.Load(false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.Role{},
		&domain.User{},
		&domain.OAuthAccount{},
		&domain.AuthHistory{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	roles := repository.NewRoleRepository(db)
	for _, name := range []string{domain.RoleAdmin, domain.RoleGeneral, domain.RoleSubscriber} {
		exists, err := roles.ExistsByName(ctx, name)
		if err != nil {
			log.Fatalf("seed roles: %v", err)
		}
		if exists {
			continue
		}
		if _, err := roles.Create(ctx, name); err != nil {
			log.Fatalf("seed roles: %v", err)
		}
		log.Printf("created role name=%s", name)
	}

	login := os.Getenv("SUPERUSER_LOGIN")
	password := os.Getenv("SUPERUSER_PASSWORD")
	if login == "" || password == "" {
		log.Print("SUPERUSER_LOGIN/SUPERUSER_PASSWORD not set, skipping superuser")
		return
	}

	users := repository.NewUserRepository(db)
	exists, err := users.ExistsByLogin(ctx, login)
	if err != nil {
		log.Fatalf("seed superuser: %v", err)
	}
	if exists {
		log.Printf("superuser login=%s already present", login)
		return
	}

	adminRoleID, err := roles.IDByName(ctx, domain.RoleAdmin)
	if err != nil {
		log.Fatalf("seed superuser: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seed superuser: %v", err)
	}

	email := os.Getenv("SUPERUSER_EMAIL")
	if email == "" {
		email = login + "@localhost"
	}

	if err := users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Login:        login,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       &adminRoleID,
	}); err != nil && err != gorm.ErrDuplicatedKey {
		log.Fatalf("seed superuser: %v", err)
	}
	log.Printf("created superuser login=%s", login)
}
