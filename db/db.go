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
	ParkingSlotsCollection  *mongo.Collection
	ReservationsCollection  *mongo.Collection
	ClaimsCollection        *mongo.Collection
	SeatsCollection         *mongo.Collection
	EventsCollection        *mongo.Collection
	NotificationsCollection *mongo.Collection
	ChatsCollection         *mongo.Collection
	MessagesCollection      *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("worknest")
	UserCollection = database.Collection("users")
	ParkingSlotsCollection = database.Collection("parkingslots")
	ReservationsCollection = database.Collection("reservations")
	ClaimsCollection = database.Collection("reservationclaims")
	SeatsCollection = database.Collection("seats")
	EventsCollection = database.Collection("events")
	NotificationsCollection = database.Collection("notifications")
	ChatsCollection = database.Collection("chats")
	MessagesCollection = database.Collection("messages")
}
