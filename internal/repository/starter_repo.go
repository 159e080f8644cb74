package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/db"
)

type StarterRepository struct {
	db *gorm.DB
}

func NewStarterRepository(database *gorm.DB) *StarterRepository {
	return &StarterRepository{db: database}
}

// ByCategory returns every starter tagged category.
func (r *StarterRepository) ByCategory(ctx context.Context, category string) ([]db.ConversationStarter, error) {
	var out []db.ConversationStarter
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&out).Error
	return out, err
}

// All returns the whole catalogue.
func (r *StarterRepository) All(ctx context.Context) ([]db.ConversationStarter, error) {
	var out []db.ConversationStarter
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}
