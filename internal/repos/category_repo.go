package repos

import (
	"aolua/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT id, name, slug, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories
	  ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
	  SELECT id, name, slug, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories WHERE id=?`, id)
	return c, err
}

func (r *CategoryRepo) Create(c *domain.Category) error {
	_, err := r.db.Exec(`INSERT INTO categories(id,name,slug) VALUES(?,?,?)`, c.ID, c.Name, c.Slug)
	return err
}

func (r *CategoryRepo) Update(c *domain.Category) error {
	_, err := r.db.Exec(`UPDATE categories SET name=?, slug=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		c.Name, c.Slug, c.ID)
	return err
}
