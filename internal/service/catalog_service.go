package service

import (
	"go-stock-control/internal/model"
	"go-stock-control/internal/repository"
	"go-stock-control/pkg/validator"

	"github.com/google/uuid"
)

// CatalogService manages the product and supplier catalog the orders
// and stock records reference.
type CatalogService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetProducts() ([]model.Product, error)

	CreateSupplier(req *model.Supplier) error
	UpdateSupplier(id uuid.UUID, req *model.Supplier) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID) error
	GetSuppliers() ([]model.Supplier, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

func NewCatalogService(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository) CatalogService {
	return &catalogService{productRepo: productRepo, supplierRepo: supplierRepo}
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &model.ValidationError{Message: validator.FirstErrorMessage(errs)}
	}
	if err := req.ValidatePricing(); err != nil {
		return err
	}

	existing, _ := s.productRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return model.NewValidationError("product name %q already exists", req.Name)
	}

	return s.productRepo.Create(req)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &model.ValidationError{Message: validator.FirstErrorMessage(errs)}
	}
	if err := req.ValidatePricing(); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if other, _ := s.productRepo.FindByName(req.Name); other != nil && other.ID != uuid.Nil && other.ID != existing.ID {
		return nil, model.NewValidationError("product name %q already exists", req.Name)
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Unit = req.Unit
	existing.CostPrice = req.CostPrice
	existing.SalePrice = req.SalePrice

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	return s.productRepo.Delete(id)
}

func (s *catalogService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) CreateSupplier(req *model.Supplier) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &model.ValidationError{Message: validator.FirstErrorMessage(errs)}
	}

	existing, _ := s.supplierRepo.FindByEmail(req.Email)
	if existing != nil && existing.ID != uuid.Nil {
		return model.NewValidationError("supplier email %q already exists", req.Email)
	}

	return s.supplierRepo.Create(req)
}

func (s *catalogService) UpdateSupplier(id uuid.UUID, req *model.Supplier) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, &model.ValidationError{Message: validator.FirstErrorMessage(errs)}
	}

	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if other, _ := s.supplierRepo.FindByEmail(req.Email); other != nil && other.ID != uuid.Nil && other.ID != existing.ID {
		return nil, model.NewValidationError("supplier email %q already exists", req.Email)
	}

	existing.Name = req.Name
	existing.Contact = req.Contact
	existing.Email = req.Email
	existing.Phone = req.Phone

	if err := s.supplierRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteSupplier(id uuid.UUID) error {
	return s.supplierRepo.Delete(id)
}

func (s *catalogService) GetSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}
