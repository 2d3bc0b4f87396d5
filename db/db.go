package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	AdminsCollection        *mongo.Collection
	AdminsByEmailCollection *mongo.Collection
	AdminRequestsCollection *mongo.Collection
	EventsCollection        *mongo.Collection
	BookingsCollection      *mongo.Collection
	GalleryCollection       *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection. The database name doubles as the
// application namespace so several deployments can share one cluster.
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	appID := os.Getenv("APP_ID")
	if appID == "" {
		appID = "gurudwara-local"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database(appID)
	UserCollection = database.Collection("users")
	AdminsCollection = database.Collection("admins")
	AdminsByEmailCollection = database.Collection("admins_by_email")
	AdminRequestsCollection = database.Collection("admin_requests")
	EventsCollection = database.Collection("events")
	BookingsCollection = database.Collection("bookings")
	GalleryCollection = database.Collection("gallery")
}
