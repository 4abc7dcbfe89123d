package main

import (
	"context"
	"log"

	"buitube/internal/app"
	"buitube/internal/callable"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	fns, logger, err := app.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	router := callable.NewRouter(fns.Routes(), logger)
	lambda.Start(router.Handle)
}
