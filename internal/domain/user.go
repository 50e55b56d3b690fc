package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	RoleStudent    = "student"
	RoleOrganizer  = "organizer"
	RoleSuperAdmin = "superadmin"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type User struct {
	ID             int64     `json:"id"`
	Role           string    `json:"role"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	RollNo         string    `json:"roll_no"`
	Phone          string    `json:"phone"`
	PasswordHash   string    `json:"-"`
	IsVerified     bool      `json:"is_verified"`
	ClubName       string    `json:"club_name,omitempty"`
	ApprovalStatus string    `json:"approval_status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanManageEvents reports whether the user may create or modify events.
// Organizers additionally need superadmin approval.
func (u *User) CanManageEvents() bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.Role == RoleOrganizer && u.ApprovalStatus == ApprovalApproved
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	RollNo   string `json:"roll_no"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	ClubName string `json:"club_name"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.RollNo = strings.ToUpper(strings.TrimSpace(r.RollNo))
	r.Phone = strings.TrimSpace(r.Phone)
	r.ClubName = strings.TrimSpace(r.ClubName)
	if r.Role == "" {
		r.Role = RoleStudent
	}
}

func (r *SignupRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if r.RollNo == "" {
		return fmt.Errorf("roll number is required")
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	switch r.Role {
	case RoleStudent:
	case RoleOrganizer:
		if r.ClubName == "" {
			return fmt.Errorf("club name is required for organizer accounts")
		}
	default:
		return fmt.Errorf("invalid role %q", r.Role)
	}
	return nil
}

type LoginRequest struct {
	RollNo   string `json:"roll_no"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.RollNo = strings.ToUpper(strings.TrimSpace(r.RollNo))
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

type UserInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RollNo string `json:"roll_no"`
	Role   string `json:"role"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		RollNo: u.RollNo,
		Role:   u.Role,
	}
}
