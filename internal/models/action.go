package models

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned for an action tag outside the supported set
var ErrUnknownAction = errors.New("unknown action")

// Action selects the deployment writer operation
type Action string

const (
	ActionRegisterDeployment Action = "register_deployment"
	ActionLogMigration       Action = "log_migration"
)

// ParseAction converts a raw action tag into an Action.
// Tags outside the closed set are rejected with the tag in the message.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionRegisterDeployment:
		return ActionRegisterDeployment, nil
	case ActionLogMigration:
		return ActionLogMigration, nil
	}
	return "", &unknownActionError{action: raw}
}

type unknownActionError struct {
	action string
}

func (e *unknownActionError) Error() string {
	return fmt.Sprintf("Unknown action: %s", e.action)
}

func (e *unknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}
