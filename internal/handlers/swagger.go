package handlers

// @title Provisioning Functions API
// @version 1.0
// @description Deployment audit writer and backup notification functions

// @host localhost:8081
// @BasePath /functions/v1

// @tag.name deployment-writer
// @tag.description Deployment and migration audit records

// @tag.name backup-notifier
// @tag.description Backup outcome email notifications
