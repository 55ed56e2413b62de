package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

const dateLayout = "2006-01-02"

type RegisterUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
}

func (r RegisterUserRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "fullName is required")
	}
	if strings.TrimSpace(r.BirthDate) == "" {
		errs = append(errs, "birthDate is required")
	} else if _, err := time.Parse(dateLayout, strings.TrimSpace(r.BirthDate)); err != nil {
		errs = append(errs, "birthDate must be in YYYY-MM-DD format")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// ToRegistration must be called on a validated request.
func (r RegisterUserRequest) ToRegistration() domain.Registration {
	birthDate, _ := time.Parse(dateLayout, strings.TrimSpace(r.BirthDate))
	return domain.Registration{
		Email:     r.Email,
		Password:  r.Password,
		FullName:  r.FullName,
		BirthDate: birthDate,
	}
}

type RegisterUserResponse struct {
	UserID    int64           `json:"userId"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName"`
	Role      string          `json:"role"`
	Account   AccountResponse `json:"account"`
	CreatedAt string          `json:"createdAt"`
}

func NewRegisterUserResponse(user domain.User, account domain.Account, currency domain.Currency) RegisterUserResponse {
	return RegisterUserResponse{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Account:   NewAccountResponse(account, currency),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

type UserInfoResponse struct {
	UserID   int64            `json:"userId"`
	FullName string           `json:"fullName"`
	Email    string           `json:"email"`
	Role     string           `json:"role"`
	Account  *AccountResponse `json:"account,omitempty"`
}

func NewUserInfoResponse(info domain.UserInfo, currency domain.Currency) UserInfoResponse {
	response := UserInfoResponse{
		UserID:   info.User.ID,
		FullName: info.User.FullName,
		Email:    info.User.Email,
		Role:     string(info.User.Role),
	}
	if info.Account != nil {
		account := NewAccountResponse(*info.Account, currency)
		response.Account = &account
	}
	return response
}
