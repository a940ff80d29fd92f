package models

import "time"

type AccountRole string

const (
	AccountRoleAdmin AccountRole = "admin"
	AccountRoleStaff AccountRole = "staff"
)

func (r AccountRole) Valid() bool {
	return r == AccountRoleAdmin || r == AccountRoleStaff
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

type ServiceCategory string

const (
	ServiceCategoryDJ           ServiceCategory = "DJ"
	ServiceCategoryVideographer ServiceCategory = "Videographer"
	ServiceCategoryPhotographer ServiceCategory = "Photographer"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case ServiceCategoryDJ, ServiceCategoryVideographer, ServiceCategoryPhotographer:
		return true
	}
	return false
}

type Account struct {
	ID              int64
	Email           string
	PasswordHash    []byte
	Name            string
	Role            AccountRole
	ServiceCategory *ServiceCategory
	Status          AccountStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a Account) IsAdmin() bool {
	return a.Role == AccountRoleAdmin
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AccountPatch carries the fields of a partial account update. Nil fields are
// left untouched. ClearCategory sets the category to NULL.
type AccountPatch struct {
	Email           *string
	PasswordHash    []byte
	Name            *string
	Role            *AccountRole
	ServiceCategory *ServiceCategory
	ClearCategory   bool
	Status          *AccountStatus
}

func (p AccountPatch) Apply(a Account) Account {
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.PasswordHash != nil {
		a.PasswordHash = p.PasswordHash
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	if p.ClearCategory {
		a.ServiceCategory = nil
	} else if p.ServiceCategory != nil {
		c := *p.ServiceCategory
		a.ServiceCategory = &c
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	return a
}
