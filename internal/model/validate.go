package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field limits for employee records.
const (
	NameMinLen    = 2
	NameMaxLen    = 50
	AgeMin        = 18
	AgeMax        = 65
	RoleMaxLen    = 100
	ExperienceMin = 0
	ExperienceMax = 40
	SalaryMin     = 10000
	SalaryMax     = 10000000
	AddressMaxLen = 500
	GenderMale    = "Male"
	GenderFemale  = "Female"
)

// ErrInvalidField is wrapped by every field validation failure.
var ErrInvalidField = errors.New("invalid field")

// Validate checks the field rules of the employee form.
func (f EmployeeFields) Validate() error {
	if err := lenBetween("firstName", f.FirstName, NameMinLen, NameMaxLen); err != nil {
		return err
	}
	if err := lenBetween("lastName", f.LastName, NameMinLen, NameMaxLen); err != nil {
		return err
	}
	if f.Age < AgeMin || f.Age > AgeMax {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidField, AgeMin, AgeMax)
	}
	if f.Gender != GenderMale && f.Gender != GenderFemale {
		return fmt.Errorf("%w: gender must be %s or %s", ErrInvalidField, GenderMale, GenderFemale)
	}
	if strings.TrimSpace(f.Role) == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidField)
	}
	if utf8.RuneCountInString(f.Role) > RoleMaxLen {
		return fmt.Errorf("%w: role must be at most %d characters", ErrInvalidField, RoleMaxLen)
	}
	if f.YearsOfExperience < ExperienceMin || f.YearsOfExperience > ExperienceMax {
		return fmt.Errorf("%w: yearsOfExperience must be between %d and %d", ErrInvalidField, ExperienceMin, ExperienceMax)
	}
	if f.Salary < SalaryMin || f.Salary > SalaryMax {
		return fmt.Errorf("%w: salary must be between %d and %d", ErrInvalidField, SalaryMin, SalaryMax)
	}
	if strings.TrimSpace(f.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidField)
	}
	if utf8.RuneCountInString(f.Address) > AddressMaxLen {
		return fmt.Errorf("%w: address must be at most %d characters", ErrInvalidField, AddressMaxLen)
	}
	return nil
}

func lenBetween(name, v string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n < minLen || n > maxLen {
		return fmt.Errorf("%w: %s must be between %d and %d characters", ErrInvalidField, name, minLen, maxLen)
	}
	return nil
}
