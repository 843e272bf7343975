package schemas

import (
	"mfportal/src/models"

	"github.com/shopspring/decimal"
)

type CreateSchemeRequest struct {
	Name        string        `json:"name"`
	SchemeCode  string        `json:"scheme_code"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	NAV         DecimalString `json:"nav"`
	IsActive    *bool         `json:"is_active"`
}

func parseNAV(raw DecimalString) (decimal.Decimal, *FieldError) {
	nav, ferr := NAVField.Parse(raw)
	if ferr != nil {
		return decimal.Zero, ferr
	}
	if !nav.IsPositive() {
		return decimal.Zero, &FieldError{Field: "nav", Reason: ReasonInvalidNAV, Message: "NAV must be greater than zero."}
	}
	return nav, nil
}

func (r CreateSchemeRequest) Validate() (*models.MutualFundScheme, *FieldError) {
	if err := checkText("name", r.Name, 200); err != nil {
		return nil, err
	}
	if err := checkText("scheme_code", r.SchemeCode, 20); err != nil {
		return nil, err
	}
	if err := checkText("category", r.Category, 50); err != nil {
		return nil, err
	}
	nav, ferr := parseNAV(r.NAV)
	if ferr != nil {
		return nil, ferr
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.MutualFundScheme{
		Name:        r.Name,
		SchemeCode:  r.SchemeCode,
		Description: r.Description,
		Category:    r.Category,
		NAV:         nav,
		IsActive:    active,
	}, nil
}

type UpdateSchemeRequest struct {
	Name        *string        `json:"name"`
	SchemeCode  *string        `json:"scheme_code"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	NAV         *DecimalString `json:"nav"`
	IsActive    *bool          `json:"is_active"`
}

func (r UpdateSchemeRequest) ApplyTo(s *models.MutualFundScheme) *FieldError {
	if r.Name != nil {
		if err := checkText("name", *r.Name, 200); err != nil {
			return err
		}
		s.Name = *r.Name
	}
	if r.SchemeCode != nil {
		if err := checkText("scheme_code", *r.SchemeCode, 20); err != nil {
			return err
		}
		s.SchemeCode = *r.SchemeCode
	}
	if r.Category != nil {
		if err := checkText("category", *r.Category, 50); err != nil {
			return err
		}
		s.Category = *r.Category
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.NAV != nil {
		nav, ferr := parseNAV(*r.NAV)
		if ferr != nil {
			return ferr
		}
		s.NAV = nav
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	return nil
}

type NAVUpdateRequest struct {
	NAV DecimalString `json:"nav"`
}

func (r NAVUpdateRequest) Validate() (decimal.Decimal, *FieldError) {
	return parseNAV(r.NAV)
}
