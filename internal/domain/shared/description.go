package shared

import (
	"strings"

	"github.com/google/uuid"
)

// Description holds the language-dependent attributes common to every
// localized entity (categories, products, content, images).
type Description struct {
	BaseEntity
	Language    string `gorm:"type:varchar(5);not null;index"`
	Name        string `gorm:"type:varchar(120);not null"`
	Title       string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:text"`
}

// NewDescription creates a description for the given language
func NewDescription(lang, name string) (Description, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	name = strings.TrimSpace(name)
	if len(lang) < 2 {
		return Description{}, NewDomainError("INVALID_LANGUAGE", "Description language is required")
	}
	if name == "" {
		return Description{}, NewDomainError("INVALID_NAME", "Description name cannot be empty")
	}
	if len(name) > 120 {
		return Description{}, NewDomainError("INVALID_NAME", "Description name cannot exceed 120 characters")
	}
	return Description{
		BaseEntity: BaseEntity{ID: uuid.New()},
		Language:   lang,
		Name:       name,
	}, nil
}

// LanguageCode returns the language of the description
func (d Description) LanguageCode() string {
	return d.Language
}

// Localized is implemented by per-language description records
type Localized interface {
	LanguageCode() string
}

// FindLocalized returns the index of the entry for lang, falling back to
// fallback and then to the first entry. It returns -1 for an empty slice.
func FindLocalized[T Localized](items []T, lang, fallback string) int {
	if len(items) == 0 {
		return -1
	}
	for i := range items {
		if strings.EqualFold(items[i].LanguageCode(), lang) {
			return i
		}
	}
	for i := range items {
		if strings.EqualFold(items[i].LanguageCode(), fallback) {
			return i
		}
	}
	return 0
}

// Slugify turns a display name into an SEO friendly url segment
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
