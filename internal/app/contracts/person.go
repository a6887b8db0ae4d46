package contracts

import (
	"context"
	"medibook-service/internal/app/models"
)

type PersonRepository interface {
	FindPersonByID(ctx context.Context, personID string) (*models.Person, error)
}

type DoctorRepository interface {
	FindDoctorByID(ctx context.Context, doctorID string) (*models.Doctor, error)
}
