package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// Group is an administrative permission group
type Group string

const (
	GroupSuperAdmin     Group = "SUPERADMIN"
	GroupAdmin          Group = "ADMIN"
	GroupAdminCatalogue Group = "ADMIN_CATALOGUE"
	GroupAdminOrder     Group = "ADMIN_ORDER"
	GroupAdminContent   Group = "ADMIN_CONTENT"
	GroupAdminShipping  Group = "ADMIN_SHIPPING"
	GroupAdminRetail    Group = "ADMIN_RETAIL"
)

var knownGroups = map[Group]bool{
	GroupSuperAdmin:     true,
	GroupAdmin:          true,
	GroupAdminCatalogue: true,
	GroupAdminOrder:     true,
	GroupAdminContent:   true,
	GroupAdminShipping:  true,
	GroupAdminRetail:    true,
}

// User is a back-office administrator attached to a merchant store
type User struct {
	shared.StoreAggregateRoot
	Username        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email           string     `gorm:"type:varchar(96);not null"`
	Password        string     `gorm:"type:varchar(60);not null" json:"-"`
	FirstName       string     `gorm:"type:varchar(64)"`
	LastName        string     `gorm:"type:varchar(64)"`
	Active          bool       `gorm:"not null;default:true"`
	Groups          string     `gorm:"type:varchar(255);not null"` // comma separated
	DefaultLanguage string     `gorm:"type:varchar(5);not null;default:'en'"`
	LastAccess      *time.Time `gorm:"column:last_access"`
	LoginTime       *time.Time `gorm:"column:login_time"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active administrator
func NewUser(storeID uuid.UUID, username, email, passwordHash string, groups []Group) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 100 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3 to 100 characters")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password is required")
	}
	u := &User{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Username:           username,
		Email:              strings.ToLower(strings.TrimSpace(email)),
		Password:           passwordHash,
		Active:             true,
		DefaultLanguage:    "en",
	}
	if err := u.SetGroups(groups); err != nil {
		return nil, err
	}
	return u, nil
}

// SetGroups replaces the user's permission groups
func (u *User) SetGroups(groups []Group) error {
	if len(groups) == 0 {
		return shared.NewDomainError("INVALID_GROUP", "At least one group is required")
	}
	names := make([]string, 0, len(groups))
	seen := make(map[Group]bool, len(groups))
	for _, g := range groups {
		g = Group(strings.ToUpper(strings.TrimSpace(string(g))))
		if !knownGroups[g] {
			return shared.NewDomainError("INVALID_GROUP", "Unknown group: "+string(g))
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		names = append(names, string(g))
	}
	u.Groups = strings.Join(names, ",")
	return nil
}

// GroupList returns the user's groups
func (u *User) GroupList() []Group {
	if u.Groups == "" {
		return nil
	}
	parts := strings.Split(u.Groups, ",")
	groups := make([]Group, 0, len(parts))
	for _, p := range parts {
		groups = append(groups, Group(p))
	}
	return groups
}

// HasGroup reports whether the user belongs to g. Super administrators belong to every group.
func (u *User) HasGroup(g Group) bool {
	for _, own := range u.GroupList() {
		if own == g || own == GroupSuperAdmin {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the user administers every store
func (u *User) IsSuperAdmin() bool {
	for _, own := range u.GroupList() {
		if own == GroupSuperAdmin {
			return true
		}
	}
	return false
}

// CanManageStore reports whether the user may administer the given store
func (u *User) CanManageStore(storeID uuid.UUID) bool {
	return u.IsSuperAdmin() || u.MerchantStoreID == storeID
}

// RecordLogin stores the login time and moves the previous one to LastAccess
func (u *User) RecordLogin(at time.Time) {
	u.LastAccess = u.LoginTime
	u.LoginTime = &at
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(hash string) {
	u.Password = hash
	u.Touch()
	u.IncrementVersion()
}

// UserCriteria filters user listings
type UserCriteria struct {
	shared.Criteria
	StoreID  *uuid.UUID `criteria:"-"`
	Username string     `criteria:"Username"`
	Email    string     `criteria:"Email"`
}
