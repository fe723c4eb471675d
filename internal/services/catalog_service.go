package services

import (
	"time"

	"aolua/internal/domain"
	"aolua/internal/repos"
)

type CatalogService struct {
	Cats    *repos.CategoryRepo
	Prods   *repos.ProductRepo
	Reviews *repos.ReviewRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, reviews *repos.ReviewRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Reviews: reviews}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProductsByCategory(catID string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.ListByCategory(catID, pageSize, offset)
}

// VariantView is a variant decorated with its resolved unit price.
type VariantView struct {
	repos.VariantDetail
	UnitPrice int64
	OnSale    bool
}

// ProductView bundles everything the product page needs.
type ProductView struct {
	Product     domain.Product
	Variants    []VariantView
	Reviews     []repos.ApprovedRow
	AvgRating   float64
	ReviewCount int
}

func (s *CatalogService) GetProduct(id string) (ProductView, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return ProductView{}, err
	}
	variants, err := s.Prods.ListVariants(id)
	if err != nil {
		return ProductView{}, err
	}
	now := time.Now()
	view := ProductView{Product: p}
	for _, v := range variants {
		price := v.Pricing().EffectiveAt(now)
		view.Variants = append(view.Variants, VariantView{
			VariantDetail: v,
			UnitPrice:     price,
			OnSale:        price != v.BasePrice,
		})
	}
	if s.Reviews != nil {
		view.Reviews, _ = s.Reviews.ListApproved(id)
		view.AvgRating, view.ReviewCount, _ = s.Reviews.AverageRating(id)
	}
	return view, nil
}

func (s *CatalogService) Search(q, category string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.Search(q, category, pageSize, offset)
}
