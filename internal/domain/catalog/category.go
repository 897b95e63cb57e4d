package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 5

// Category is a node of a store's catalog tree.
// Path is the materialized lineage: ancestor IDs and the category's own ID joined by "/".
type Category struct {
	shared.StoreAggregateRoot
	Code         string                `gorm:"type:varchar(100);not null;index"`
	ParentID     *uuid.UUID            `gorm:"type:uuid;index"`
	Path         string                `gorm:"type:varchar(500);not null;index"`
	Depth        int                   `gorm:"not null;default:0"`
	SortOrder    int                   `gorm:"not null;default:0"`
	Visible      bool                  `gorm:"not null;default:true"`
	Featured     bool                  `gorm:"not null;default:false"`
	Image        string                `gorm:"type:varchar(100)"`
	Descriptions []CategoryDescription `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryDescription is the per-language name and SEO data of a category
type CategoryDescription struct {
	shared.Description
	CategoryID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SeUrl           string    `gorm:"column:se_url;type:varchar(120);index"`
	MetaDescription string    `gorm:"type:varchar(255)"`
	MetaKeywords    string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CategoryDescription) TableName() string {
	return "category_descriptions"
}

// NewCategory creates a new root category
func NewCategory(storeID uuid.UUID, code string) (*Category, error) {
	if err := validateCategoryCode(code); err != nil {
		return nil, err
	}

	category := &Category{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               code,
		Visible:            true,
		Depth:              0,
	}
	category.Path = category.ID.String()

	category.AddDomainEvent(NewCategoryEvent(EventTypeCategoryCreated, category))

	return category, nil
}

// NewChildCategory creates a new child category under a parent
func NewChildCategory(storeID uuid.UUID, code string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if parent.MerchantStoreID != storeID {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category belongs to another store")
	}
	if parent.Depth >= MaxCategoryDepth-1 {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	category, err := NewCategory(storeID, code)
	if err != nil {
		return nil, err
	}
	category.ParentID = &parent.ID
	category.Depth = parent.Depth + 1
	category.Path = parent.Path + "/" + category.ID.String()
	return category, nil
}

// SetDescription adds or replaces the description for a language
func (c *Category) SetDescription(lang, name, seUrl, metaDescription string) error {
	desc, err := shared.NewDescription(lang, name)
	if err != nil {
		return err
	}
	if seUrl == "" {
		seUrl = shared.Slugify(name)
	}
	for i := range c.Descriptions {
		if c.Descriptions[i].Language == desc.Language {
			c.Descriptions[i].Name = desc.Name
			c.Descriptions[i].SeUrl = seUrl
			c.Descriptions[i].MetaDescription = metaDescription
			c.Touch()
			return nil
		}
	}
	c.Descriptions = append(c.Descriptions, CategoryDescription{
		Description:     desc,
		CategoryID:      c.ID,
		SeUrl:           seUrl,
		MetaDescription: metaDescription,
	})
	c.Touch()
	return nil
}

// DescriptionFor returns the description in lang, falling back to the first one
func (c *Category) DescriptionFor(lang string) *CategoryDescription {
	idx := shared.FindLocalized(c.Descriptions, lang, "")
	if idx < 0 {
		return nil
	}
	return &c.Descriptions[idx]
}

// Update changes display attributes
func (c *Category) Update(sortOrder int, visible, featured bool) {
	c.SortOrder = sortOrder
	c.Visible = visible
	c.Featured = featured
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryUpdated, c))
}

// MoveTo re-parents the category. A nil parent makes it a root.
// Descendant paths must be rewritten by the caller with RewritePath.
func (c *Category) MoveTo(parent *Category) (oldPath string, err error) {
	oldPath = c.Path
	if parent == nil {
		c.ParentID = nil
		c.Depth = 0
		c.Path = c.ID.String()
	} else {
		if parent.ID == c.ID || c.IsAncestorOf(parent) {
			return "", shared.NewDomainError("INVALID_PARENT", "Category cannot be moved under itself")
		}
		if parent.Depth >= MaxCategoryDepth-1 {
			return "", shared.NewDomainError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
		}
		c.ParentID = &parent.ID
		c.Depth = parent.Depth + 1
		c.Path = parent.Path + "/" + c.ID.String()
	}
	c.Touch()
	c.IncrementVersion()
	return oldPath, nil
}

// RewritePath moves a descendant from oldPrefix to newPrefix
func (c *Category) RewritePath(oldPrefix, newPrefix string) {
	if !strings.HasPrefix(c.Path, oldPrefix+"/") {
		return
	}
	c.Path = newPrefix + strings.TrimPrefix(c.Path, oldPrefix)
	c.Depth = strings.Count(c.Path, "/")
	c.Touch()
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// AncestorIDs returns the IDs of all ancestor categories, root first
func (c *Category) AncestorIDs() []uuid.UUID {
	parts := strings.Split(c.Path, "/")
	if len(parts) <= 1 {
		return nil
	}
	ancestors := make([]uuid.UUID, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(p); err == nil {
			ancestors = append(ancestors, id)
		}
	}
	return ancestors
}

// IsAncestorOf returns true if this category is an ancestor of the given category
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

func validateCategoryCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Category code cannot be empty")
	}
	if len(code) > 100 {
		return shared.NewDomainError("INVALID_CODE", "Category code cannot exceed 100 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Category code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// CategoryNode is a category with its resolved children, used to render trees
type CategoryNode struct {
	Category *Category
	Children []*CategoryNode
}

// BuildTree arranges a flat list of categories into trees using their parent links.
// Categories whose parent is not in the list become roots. Siblings keep SortOrder.
func BuildTree(categories []Category) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{Category: &categories[i]}
	}

	var roots []*CategoryNode
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID != nil {
			if parent, ok := nodes[*categories[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && nodes[j].Category.SortOrder < nodes[j-1].Category.SortOrder; j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
