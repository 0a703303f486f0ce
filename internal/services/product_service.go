package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductService handles business logic related to products. Reads of a
// single product go through an optional cache; cache failures fall back to
// the repository and are logged, never surfaced.
type ProductService struct {
	repo     repositories.ProductRepository
	cache    cache.ProductCache
	validate *validator.Validate
}

// NewProductService creates a new ProductService. cache may be nil.
func NewProductService(repo repositories.ProductRepository, productCache cache.ProductCache) *ProductService {
	return &ProductService{
		repo:     repo,
		cache:    productCache,
		validate: validator.New(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product, read-through the cache.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		if product, err := s.cache.Get(ctx, id); err == nil {
			return product, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("Product cache read failed for %s: %v", id, err)
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			log.Printf("Product cache write failed for %s: %v", id, err)
		}
	}
	return product, nil
}

// CreateProduct validates and creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return err
	}
	if !product.HasPricing() {
		return fmt.Errorf("%w: product has no pricing representation", ErrNoPriceAvailable)
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct validates and updates an existing product, evicting it
// from the cache.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return err
	}
	if !product.HasPricing() {
		return fmt.Errorf("%w: product has no pricing representation", ErrNoPriceAvailable)
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.evict(ctx, product.ID)
	return nil
}

// DeleteProduct deletes a product by its ID, evicting it from the cache.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *ProductService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Printf("Product cache eviction failed for %s: %v", id, err)
	}
}
