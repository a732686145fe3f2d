package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque record identities.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}

// Sequence hands out predictable ids, handy for fixtures and tests.
type Sequence struct {
	prefix string
	next   int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next), nil
}
