package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"quizagent/internal/model"
	"quizagent/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "quizagent"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(dbName))

	questions := []*model.Question{
		{
			Type:       model.QuestionTypeTrueFalse,
			Stem:       "HTTP is a stateless protocol.",
			Answer:     model.AnswerTrue,
			Analysis:   "Each HTTP request carries everything the server needs; the protocol itself keeps no memory between requests.",
			Difficulty: 1,
		},
		{
			Type:       model.QuestionTypeTrueFalse,
			Stem:       "In Go, a nil map can be written to without panicking.",
			Answer:     model.AnswerFalse,
			Analysis:   "Reading from a nil map is fine, but assigning to one panics. Initialize with make first.",
			Difficulty: 2,
		},
		{
			Type:   model.QuestionTypeChoice,
			Stem:   "Which of the following is a programming language?",
			Answer: "B",
			Options: []string{
				"Oracle",
				"Go",
				"Linux",
				"HTML",
			},
			Analysis:   "Oracle is a database vendor, Linux an operating system, and HTML a markup language. Go is the only general-purpose programming language listed.",
			Difficulty: 1,
		},
		{
			Type:   model.QuestionTypeChoice,
			Stem:   "Which data structure gives O(1) average lookup by key?",
			Answer: "C",
			Options: []string{
				"Linked list",
				"Binary search tree",
				"Hash table",
				"Sorted array",
			},
			Analysis:   "Hash tables hash the key directly to a bucket, so the average lookup does not depend on the number of elements.",
			Difficulty: 2,
		},
		{
			Type:       model.QuestionTypeShort,
			Stem:       "Briefly explain what a database index is and why it speeds up queries.",
			Answer:     "An index is an auxiliary data structure, usually a B-tree, that maps column values to row locations so the database can avoid a full table scan.",
			Keywords:   []string{"index", "b-tree", "lookup", "scan"},
			Analysis:   "The key ideas are the auxiliary structure and avoiding a full scan. Mentioning B-trees or lookup cost earns full marks.",
			Difficulty: 3,
		},
		{
			Type:       model.QuestionTypeShort,
			Stem:       "What does a goroutine leak mean and how can it happen?",
			Answer:     "A goroutine leak is a goroutine that never exits, typically because it blocks forever on a channel send or receive that no other goroutine will ever complete.",
			Keywords:   []string{"goroutine", "block", "channel", "exit"},
			Analysis:   "Look for the blocked-forever idea. Common causes are unbuffered channel sends with no receiver and missing context cancellation.",
			Difficulty: 3,
		},
	}

	for _, q := range questions {
		if err := q.Validate(); err != nil {
			log.Fatalf("Invalid seed question %q: %v", q.Stem, err)
		}
		if err := repo.Create(ctx, q); err != nil {
			log.Fatalf("Failed to insert question %q: %v", q.Stem, err)
		}
	}

	fmt.Printf("Successfully seeded %d questions into %s\n", len(questions), dbName)
}
