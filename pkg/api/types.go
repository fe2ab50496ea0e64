package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/embla/pkg/storage"
	"github.com/ssargent/embla/pkg/strand"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StrandInfo summarizes one archived strand
type StrandInfo struct {
	ID     string `json:"id"`
	Seed   uint64 `json:"seed"`
	Length int    `json:"length"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string // empty disables authentication
}

// ArchiveStore defines the archive operations the handlers depend on
type ArchiveStore interface {
	Create(s *strand.Strand) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) (*strand.Strand, error)
	Update(id ksuid.KSUID, s *strand.Strand) error
	Delete(id ksuid.KSUID) error
	List() ([]ksuid.KSUID, error)
	FindSeed(seed uint64) []ksuid.KSUID
	Stats() (storage.ArchiveStats, error)
}
