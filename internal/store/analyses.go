package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"gorm.io/gorm"
)

type GormAnalysisRepository struct {
	db *gorm.DB
}

func NewGormAnalysisRepository(db *gorm.DB) (*GormAnalysisRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormAnalysisRepository{db: db}, nil
}

// SaveAnalysis stores a diagnosis verbatim for its account.
func (r *GormAnalysisRepository) SaveAnalysis(ctx context.Context, analysis Analysis) (Analysis, error) {
	if analysis.AccountID == "" {
		return Analysis{}, fmt.Errorf("account id is required")
	}
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}

	model := toAnalysisModel(analysis)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return Analysis{}, fmt.Errorf("save analysis: %w", err)
	}

	return model.toDomain(), nil
}

// ListAnalyses returns the account's analyses, newest first.
func (r *GormAnalysisRepository) ListAnalyses(ctx context.Context, accountID string, limit int) ([]Analysis, error) {
	var models []AnalysisModel

	if limit <= 0 || limit > constants.DefaultAnalysisListLimit {
		limit = constants.DefaultAnalysisListLimit
	}

	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	analyses := make([]Analysis, len(models))
	for i, model := range models {
		analyses[i] = model.toDomain()
	}

	return analyses, nil
}

// GetAnalysis returns one analysis owned by accountID. Analyses belonging to
// other accounts are reported as ErrNotFound.
func (r *GormAnalysisRepository) GetAnalysis(ctx context.Context, accountID, id string) (Analysis, error) {
	var model AnalysisModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&model).Error
	if err != nil {
		return Analysis{}, translateNotFound(err)
	}

	return model.toDomain(), nil
}
