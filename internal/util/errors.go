package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrSkillPathNotFound  = errors.New("Skill path not found")
	ErrTaskNotFound       = errors.New("Task not found")
	ErrWeekNotFound       = errors.New("Week not found in roadmap")
	ErrQuizNotFound       = errors.New("Quiz not found")
	ErrSessionNotFound    = errors.New("Time tracking session not found or already ended")
	ErrInvalidStatus      = errors.New("status must be one of pending, complete, deferred")
	ErrAIUnavailable      = errors.New("AI provider is not configured")
	ErrAIEmptyResponse    = errors.New("AI returned no choices")
	ErrJobsUnavailable    = errors.New("job board credentials are not configured")
)
