package listings

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"pet-adoption-marketplace/internal/apperr"
)

// CreateInput son los atributos de una publicación nueva (form multipart en HTTP).
type CreateInput struct {
	Name        string `json:"name" validate:"required"`
	Species     string `json:"species" validate:"required"`
	Age         int    `json:"age" validate:"gt=0"`
	Description string `json:"description" validate:"required"`

	OwnerName  string `json:"ownerName" validate:"required"`
	Phone      string `json:"phone" validate:"required,len=10,number"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// RequestDetails es el formulario de adopción.
type RequestDetails struct {
	Contact    string `json:"contact" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`

	HomeType   string `json:"homeType" validate:"required"`
	YardSize   string `json:"yardSize"`
	HoursAlone string `json:"hoursAlone" validate:"required"`

	OtherPets     string `json:"otherPets"`
	PetExperience string `json:"petExperience" validate:"required"`

	AdoptionReason string `json:"adoptionReason" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores se reportan con el nombre del campo tal como llega del cliente.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// nonEmptyFields reportan "must be a non-empty string" en vez de "is required".
var nonEmptyFields = map[string]struct{}{
	"name":        {},
	"species":     {},
	"description": {},
}

func validateStruct(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(op, map[string]string{"_": err.Error()})
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperr.Validation(op, fields)
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch {
	case f == "age":
		return "age must be a positive integer"
	case f == "phone":
		return "phone must be 10 digits"
	case fe.Tag() == "required":
		if _, ok := nonEmptyFields[f]; ok {
			return f + " must be a non-empty string"
		}
		return f + " is required"
	default:
		return f + " is invalid"
	}
}

func (in CreateInput) normalized() CreateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	in.Description = strings.TrimSpace(in.Description)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	return in
}

func (d RequestDetails) normalized() RequestDetails {
	d.Contact = strings.TrimSpace(d.Contact)
	d.Address = strings.TrimSpace(d.Address)
	d.City = strings.TrimSpace(d.City)
	d.State = strings.TrimSpace(d.State)
	d.PostalCode = strings.TrimSpace(d.PostalCode)
	d.HomeType = strings.TrimSpace(d.HomeType)
	d.YardSize = strings.TrimSpace(d.YardSize)
	d.HoursAlone = strings.TrimSpace(d.HoursAlone)
	d.OtherPets = strings.TrimSpace(d.OtherPets)
	d.PetExperience = strings.TrimSpace(d.PetExperience)
	d.AdoptionReason = strings.TrimSpace(d.AdoptionReason)
	return d
}
