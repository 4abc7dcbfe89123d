package main

import (
	"context"
	"log"

	"buitube/internal/app"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	fns, _, err := app.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	lambda.Start(fns.CreateUser)
}
