package registry

import (
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Artifact types accepted by the registry.
const (
	TypeModel   = "model"
	TypeDataset = "dataset"
	TypeCode    = "code"
)

// ValidTypes maps every accepted artifact type.
var ValidTypes = map[string]bool{
	TypeModel:   true,
	TypeDataset: true,
	TypeCode:    true,
}

// Artifact is one registered artifact's metadata record.
type Artifact struct {
	ID          string    `json:"id" db:"id"`
	Type        string    `json:"type" db:"type"`
	Name        string    `json:"name" db:"name"`
	URL         string    `json:"url" db:"url"`
	DownloadURL string    `json:"download_url" db:"download_url"`
	License     string    `json:"license" db:"license"`
	Lineage     []string  `json:"lineage" db:"lineage"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ArtifactRef is the compact listing form of an artifact.
type ArtifactRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Ref returns the compact listing form.
func (a *Artifact) Ref() ArtifactRef {
	return ArtifactRef{Name: a.Name, ID: a.ID, Type: a.Type}
}

var multiSlashRe = regexp.MustCompile(`/+`)

// NewArtifactID generates a registry-unique 10-digit identifier.
func NewArtifactID() string {
	return strconv.FormatInt(1_000_000_000+rand.Int63n(9_000_000_000), 10)
}

// NormalizeName canonicalizes an artifact name for lookup: URL-decoded,
// trimmed, lowercased, slash runs collapsed, trailing slash dropped.
func NormalizeName(name string) string {
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = multiSlashRe.ReplaceAllString(name, "/")
	return strings.TrimRight(name, "/")
}
