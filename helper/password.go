package helper

import (
	"pos-storefront/model"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordGate maps the shared application passwords to roles. Plain
// passwords are hashed once at construction and never kept.
type PasswordGate struct {
	adminHash string
	staffHash string
}

func NewPasswordGate(staffPassword, adminPassword string) (*PasswordGate, error) {
	g := &PasswordGate{}
	var err error
	if staffPassword != "" {
		if g.staffHash, err = HashPassword(staffPassword); err != nil {
			return nil, err
		}
	}
	if adminPassword != "" {
		if g.adminHash, err = HashPassword(adminPassword); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Role returns the role unlocked by password. Admin wins when both match.
func (g *PasswordGate) Role(password string) (string, bool) {
	if password == "" {
		return "", false
	}
	if g.adminHash != "" && CheckPasswordHash(password, g.adminHash) {
		return model.RoleAdmin, true
	}
	if g.staffHash != "" && CheckPasswordHash(password, g.staffHash) {
		return model.RoleStaff, true
	}
	return "", false
}
