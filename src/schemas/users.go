package schemas

import (
	"net/mail"

	"mfportal/src/models"
)

type CreateUserRequest struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

func checkEmail(email string) *FieldError {
	if err := checkText("email", email, 254); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &FieldError{Field: "email", Reason: ReasonInvalidRequest, Message: "Enter a valid email address."}
	}
	return nil
}

func checkRole(role models.Role) *FieldError {
	if !role.Valid() {
		return &FieldError{Field: "role", Reason: ReasonInvalidRequest, Message: `"` + string(role) + `" is not a valid choice.`}
	}
	return nil
}

func (r CreateUserRequest) Validate() (*models.User, *FieldError) {
	if err := checkText("username", r.Username, 150); err != nil {
		return nil, err
	}
	if err := checkEmail(r.Email); err != nil {
		return nil, err
	}
	if err := checkText("first_name", r.FirstName, 150); err != nil {
		return nil, err
	}
	if err := checkText("last_name", r.LastName, 150); err != nil {
		return nil, err
	}
	role := r.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if err := checkRole(role); err != nil {
		return nil, err
	}
	return &models.User{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      role,
	}, nil
}

type UpdateUserRequest struct {
	Username  *string      `json:"username"`
	Email     *string      `json:"email"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Role      *models.Role `json:"role"`
}

func (r UpdateUserRequest) ApplyTo(u *models.User) *FieldError {
	if r.Username != nil {
		if err := checkText("username", *r.Username, 150); err != nil {
			return err
		}
		u.Username = *r.Username
	}
	if r.Email != nil {
		if err := checkEmail(*r.Email); err != nil {
			return err
		}
		u.Email = *r.Email
	}
	if r.FirstName != nil {
		if err := checkText("first_name", *r.FirstName, 150); err != nil {
			return err
		}
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		if err := checkText("last_name", *r.LastName, 150); err != nil {
			return err
		}
		u.LastName = *r.LastName
	}
	if r.Role != nil {
		if err := checkRole(*r.Role); err != nil {
			return err
		}
		u.Role = *r.Role
	}
	return nil
}
