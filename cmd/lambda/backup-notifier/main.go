package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"provisioning-functions/internal/config"
	"provisioning-functions/pkg/lambda"
	"provisioning-functions/pkg/server"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewLambdaContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func main() {
	awslambda.Start(lambda.Adapt(container.Notifications.HandleBackupNotification))
}
