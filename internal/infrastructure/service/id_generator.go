// Package service provides small infrastructure adapters behind the
// application-layer ports: ID generation and password hashing.
package service

import (
	"github.com/google/uuid"
)

// UUIDGenerator implements command.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUID-based ID generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// GenerateID returns a new UUIDv4 string.
func (g *UUIDGenerator) GenerateID() string {
	return uuid.New().String()
}
