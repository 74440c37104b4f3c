package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/policydesk/insurance-crm/internal/db"
	"github.com/policydesk/insurance-crm/internal/employee"
	"github.com/policydesk/insurance-crm/internal/events"
	"github.com/policydesk/insurance-crm/internal/handlers"
	"github.com/policydesk/insurance-crm/internal/identity"
	"github.com/policydesk/insurance-crm/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

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
	cars := &db.MongoCarCollection{Collection: database.Collection("cars")}
	owners := &db.MongoOwnerCollection{Collection: database.Collection("owners")}
	policies := &db.MongoPolicyCollection{Collection: database.Collection("policies")}
	pending := &db.MongoPendingOpCollection{Collection: database.Collection("pending_ops")}

	publisher, err := events.Connect()
	if err != nil {
		log.WithError(err).Warn("MQTT broker unavailable, change events disabled")
	}
	defer publisher.Close()

	lifecycle := employee.NewManager(provider, users, pending)

	authHandler := handlers.NewAuthHandler(provider, users, lifecycle)
	managerHandler := handlers.NewManagerHandler(lifecycle, publisher)
	carHandler := handlers.NewCarHandler(cars, publisher)
	ownerHandler := handlers.NewOwnerHandler(owners, publisher)
	policyHandler := handlers.NewPolicyHandler(policies, publisher)
	userHandler := handlers.NewUserHandler(users)

	authMW := middleware.NewAuthMiddleware(provider)
	manager := func(h http.HandlerFunc) http.Handler {
		return authMW.RequireManager(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/set-manager-claim", authHandler.SetManagerClaim)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)

	mux.Handle("POST /api/manager/employee", manager(managerHandler.CreateEmployee))
	mux.Handle("POST /api/manager/employee/update", manager(managerHandler.UpdateEmployee))
	mux.Handle("POST /api/manager/employee/status", manager(managerHandler.SetStatus))
	mux.Handle("DELETE /api/manager/employee/{uid}", manager(managerHandler.DeleteEmployee))
	mux.Handle("POST /api/manager/reconcile", manager(managerHandler.Reconcile))

	mux.Handle("GET /api/users", manager(userHandler.List))
	mux.HandleFunc("GET /api/users/{uid}", userHandler.Get)
	mux.HandleFunc("PUT /api/users/{uid}", userHandler.Update)

	mux.HandleFunc("GET /api/cars", carHandler.List)
	mux.HandleFunc("POST /api/cars", carHandler.Create)
	mux.HandleFunc("PUT /api/cars/{id}", carHandler.Update)
	mux.HandleFunc("DELETE /api/cars/{id}", carHandler.Delete)

	mux.HandleFunc("GET /api/owners", ownerHandler.List)
	mux.HandleFunc("POST /api/owners", ownerHandler.Create)
	mux.HandleFunc("PUT /api/owners/{id}", ownerHandler.Update)
	mux.HandleFunc("DELETE /api/owners/{id}", ownerHandler.Delete)

	mux.HandleFunc("GET /api/policies", policyHandler.List)
	mux.HandleFunc("POST /api/policies", policyHandler.Create)
	mux.HandleFunc("PUT /api/policies/{id}", policyHandler.Update)
	mux.HandleFunc("DELETE /api/policies/{id}", policyHandler.Delete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, authMW.Authenticate(mux)))
}
