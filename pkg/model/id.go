package model

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out course identifiers for input records that do not carry one
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

type sequentialGenerator struct {
	prefix string
	next   uint64
}

// NewSequentialGenerator returns a deterministic generator yielding prefix-1, prefix-2, ...
func NewSequentialGenerator(prefix string) IDGenerator {
	return &sequentialGenerator{prefix: prefix}
}

func (generator *sequentialGenerator) NewID() string {
	generator.next++
	return fmt.Sprintf("%v-%v", generator.prefix, generator.next)
}
