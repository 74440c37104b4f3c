// Command seed provisions the first manager: an identity-provider account
// carrying the manager role claim plus the matching local record. It is
// idempotent and safe to re-run against an existing deployment.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/identity"
	"github.com/policydesk/insurance-crm/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: seed <manager-email>")
	}
	email := os.Args[1]

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "insurance_crm"
	}
	database := client.Database(dbName)

	provider, err := identity.NewService(database.Collection("identity_accounts"))
	if err != nil {
		log.WithError(err).Fatal("Failed to create identity service")
	}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	account, err := provider.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		log.Info("Identity account already exists")
	case errors.Is(err, identity.ErrAccountNotFound):
		password := uuid.NewString()
		account, err = provider.CreateAccount(ctx, email, password, "Manager")
		if err != nil {
			log.WithError(err).Fatal("Failed to create identity account")
		}
		log.WithField("defaultPassword", password).Info("Created manager identity account")
	default:
		log.WithError(err).Fatal("Failed to look up identity account")
	}

	if err := provider.SetRoleClaim(ctx, account.UID, models.RoleManager); err != nil {
		log.WithError(err).Fatal("Failed to set manager claim")
	}

	if _, err := users.FindUserByUID(ctx, account.UID); errors.Is(err, db.ErrNotFound) {
		user := models.User{
			UID:             account.UID,
			Name:            "Manager",
			Email:           email,
			Role:            models.RoleManager,
			EmployeeID:      "MGR@0",
			Status:          models.StatusActive,
			PasswordChanged: true,
		}
		if err := users.InsertUser(ctx, user); err != nil {
			log.WithError(err).Fatal("Failed to create local manager record")
		}
		log.Info("Created local manager record")
	} else if err != nil {
		log.WithError(err).Fatal("Failed to look up local manager record")
	}

	log.WithField("uid", account.UID).Info("Seed complete")
}
