package service

import (
	"strings"

	"newhill-spices/internal/model"
	"newhill-spices/internal/repository"
	"newhill-spices/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Company    string `json:"company" validate:"max=255"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"max=255"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
	Phone      string `json:"phone" validate:"max=20"`
	Type       string `json:"type" validate:"omitempty,oneof=shipping billing"`
	IsDefault  bool   `json:"is_default"`
}

func (r *AddressRequest) normalize() {
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	if r.Type == "" {
		r.Type = model.AddressShipping
	}
}

func (r *AddressRequest) apply(a *model.Address) {
	a.FirstName = r.FirstName
	a.LastName = r.LastName
	a.Company = r.Company
	a.Line1 = r.Line1
	a.Line2 = r.Line2
	a.City = r.City
	a.State = r.State
	a.PostalCode = r.PostalCode
	a.Country = r.Country
	a.Phone = r.Phone
	a.Type = r.Type
	a.IsDefault = r.IsDefault
}

type AddressService interface {
	List(userID uuid.UUID) ([]model.Address, error)
	Get(userID, id uuid.UUID) (*model.Address, error)
	Create(userID uuid.UUID, req *AddressRequest) (*model.Address, error)
	Update(userID, id uuid.UUID, req *AddressRequest) (*model.Address, error)
	Delete(userID, id uuid.UUID) error
}

type addressService struct {
	repo repository.AddressRepository
	tx   repository.Transactor
}

func NewAddressService(repo repository.AddressRepository, tx repository.Transactor) AddressService {
	return &addressService{repo: repo, tx: tx}
}

func (s *addressService) List(userID uuid.UUID) ([]model.Address, error) {
	return s.repo.ListByUser(userID)
}

func (s *addressService) Get(userID, id uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.FindForUser(id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return addr, nil
}

func (s *addressService) Create(userID uuid.UUID, req *AddressRequest) (*model.Address, error) {
	req.normalize()
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	addr := &model.Address{UserID: userID}
	req.apply(addr)
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(tx, addr); err != nil {
			return err
		}
		if addr.IsDefault {
			return s.repo.ClearDefault(tx, userID, addr.Type, addr.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *addressService) Update(userID, id uuid.UUID, req *AddressRequest) (*model.Address, error) {
	req.normalize()
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	addr, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	req.apply(addr)
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(tx, addr); err != nil {
			return err
		}
		if addr.IsDefault {
			return s.repo.ClearDefault(tx, userID, addr.Type, addr.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *addressService) Delete(userID, id uuid.UUID) error {
	if err := s.repo.Delete(id, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}
