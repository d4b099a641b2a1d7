package utils

import "github.com/google/uuid"

// UUIDGenerator produces device-local identifiers. Version 7 keeps new IDs
// roughly time-ordered, which keeps the SQLite primary-key index append-mostly.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
