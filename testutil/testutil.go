package testutil

import (
	"context"
	"time"

	"github.com/autom8ter/datasets"
	_ "github.com/autom8ter/datasets/kv/badger"
	"github.com/brianvoe/gofakeit/v6"
)

// Statuses are the values NewUserDoc draws a user's status from
var Statuses = []string{"active", "inactive", "pending"}

// NewUserDoc returns a fake user with nested, array and numeric fields
func NewUserDoc() *datasets.Document {
	doc, err := datasets.NewDocumentFrom(map[string]any{
		"name":   gofakeit.Name(),
		"status": gofakeit.RandomString(Statuses),
		"contact": map[string]any{
			"email": gofakeit.Email(),
		},
		"address": map[string]any{
			"city": gofakeit.City(),
			"zip":  gofakeit.Zip(),
		},
		"skills":          []string{gofakeit.ProgrammingLanguage(), gofakeit.ProgrammingLanguage()},
		"age":             gofakeit.IntRange(18, 90),
		"salary":          gofakeit.Price(30000, 200000),
		"active":          gofakeit.Bool(),
		"birthday_month":  gofakeit.Month(),
		"favorite_number": gofakeit.Second(),
	})
	if err != nil {
		panic(err)
	}
	return doc
}

// NewInsertRequest returns a request inserting a fake user into the dataset
func NewInsertRequest(dataset string) datasets.InsertRecordRequest {
	return datasets.InsertRecordRequest{
		DatasetName: dataset,
		Data:        NewUserDoc(),
	}
}

// TestDB opens an in-memory badger backed Datasets instance, passes it to fn and closes it
func TestDB(fn func(ctx context.Context, db datasets.Datasets), opts ...datasets.Opt) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := datasets.Open(ctx, datasets.Config{
		Provider: "badger",
		Params: map[string]any{
			"storage_path": "",
		},
		LogLevel: "error",
	}, opts...)
	if err != nil {
		return err
	}
	defer db.Close(ctx)
	fn(ctx, db)
	return nil
}
