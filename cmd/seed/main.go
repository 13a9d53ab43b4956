package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wellscreen/internal/catalog"
	"wellscreen/internal/model"
	"wellscreen/internal/scoring"
)

// Seeds one completed synthetic session so dashboards have something to show.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "wellscreen"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	sessions := client.Database(mongoDB).Collection("sessions")

	cat := catalog.Default()

	// Full answer set on the 1-6 scale, mid-to-upper values so each program
	// lands in a different band.
	answers := model.AnswerSet{}
	for i, qid := range cat.QuestionIDs() {
		answers.Set(qid, 1+(i%6))
	}

	result := scoring.NewCalculator(cat).Compute(answers)

	now := time.Now().UTC()
	result.ComputedAt = now
	created := now.Add(-30 * time.Minute)
	order := cat.QuestionIDs()

	sess := model.Session{
		ID:               uuid.NewString(),
		QuestionOrder:    order,
		CurrentIndex:     len(order) - 1,
		Answers:          answers,
		CalculatedResult: result,
		IsSyntheticRun:   true,
		CreatedAt:        created,
		CompletedAt:      &now,
	}

	if _, err := sessions.InsertOne(ctx, sess); err != nil {
		log.Fatalf("Failed to insert session: %v", err)
	}

	fmt.Printf("Successfully created synthetic session %s (scale %s)\n", sess.ID, result.Scale)
}
