package document

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/seralia/knowsearch/internal/domain"
)

// docDTO is the stored JSON shape of a document. The vector is packed as
// base64 of little-endian float32 to keep the payload compact.
type docDTO struct {
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	FileType  string    `json:"file_type,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Vector    string    `json:"vector,omitempty"`
	Provider  string    `json:"provider,omitempty"`
}

func toDTO(doc *domain.Document) *docDTO {
	return &docDTO{
		Title:     doc.Title,
		Content:   doc.Content,
		FileType:  doc.FileType,
		Tags:      doc.Tags,
		Summary:   doc.Summary,
		CreatedAt: doc.CreatedAt,
		Vector:    vectorToBase64(doc.Vector),
		Provider:  doc.Provider,
	}
}

func fromDTO(id string, dto *docDTO) (domain.Document, error) {
	vec, err := base64ToVector(dto.Vector)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, err)
	}
	return domain.Document{
		ID:        id,
		Title:     dto.Title,
		Content:   dto.Content,
		FileType:  dto.FileType,
		Tags:      dto.Tags,
		Summary:   dto.Summary,
		CreatedAt: dto.CreatedAt,
		Vector:    vec,
		Provider:  dto.Provider,
	}, nil
}

// vectorToBase64 serializes []float32 to base64 (4 bytes per float, little-endian).
func vectorToBase64(v []float32) string {
	if len(v) == 0 {
		return ""
	}
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// base64ToVector deserializes a base64 string back to []float32.
func base64ToVector(s string) ([]float32, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector data: len=%d (not multiple of 4)", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
