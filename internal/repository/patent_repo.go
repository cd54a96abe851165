package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/internal/model"
)

// PatentFilter SQL side of the listing search. Zero values are ignored.
type PatentFilter struct {
	ListedSince     *time.Time
	PatentType      string
	Sector          string
	UsedTech        string
	TransactionType string
}

type PatentRepository struct {
	db *gorm.DB
}

func NewPatentRepository(db *gorm.DB) *PatentRepository {
	return &PatentRepository{db: db}
}

func (r *PatentRepository) Create(patent *model.Patent) error {
	return r.db.Create(patent).Error
}

func (r *PatentRepository) GetByPatentID(patentID string) (*model.Patent, error) {
	var patent model.Patent
	err := r.db.Where("patent_id = ?", patentID).First(&patent).Error
	if err != nil {
		return nil, err
	}
	return &patent, nil
}

// ListByUser newest first
func (r *PatentRepository) ListByUser(userID string) ([]*model.Patent, error) {
	var patents []*model.Patent
	err := r.db.Where("user_id = ?", userID).Order("listed_at DESC").Find(&patents).Error
	return patents, err
}

func (r *PatentRepository) ListAll() ([]*model.Patent, error) {
	var patents []*model.Patent
	err := r.db.Order("listed_at DESC").Find(&patents).Error
	return patents, err
}

func (r *PatentRepository) ListByPatentIDs(patentIDs []string) ([]*model.Patent, error) {
	var patents []*model.Patent
	if len(patentIDs) == 0 {
		return patents, nil
	}
	err := r.db.Where("patent_id IN ?", patentIDs).Order("listed_at DESC").Find(&patents).Error
	return patents, err
}

func (r *PatentRepository) Search(f PatentFilter) ([]*model.Patent, error) {
	query := r.db.Model(&model.Patent{})
	if f.ListedSince != nil {
		query = query.Where("listed_at >= ?", *f.ListedSince)
	}
	if f.PatentType != "" {
		query = query.Where("patent_type = ?", f.PatentType)
	}
	if f.Sector != "" {
		query = query.Where("sector = ?", f.Sector)
	}
	if f.UsedTech != "" {
		query = query.Where("used_tech = ?", f.UsedTech)
	}
	if f.TransactionType != "" {
		query = query.Where("transaction_type = ?", f.TransactionType)
	}

	var patents []*model.Patent
	err := query.Order("listed_at DESC").Find(&patents).Error
	return patents, err
}

// DeleteCascade removes the patent together with every interaction that
// references it. Both deletes commit or neither does.
func (r *PatentRepository) DeleteCascade(patentID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patent_id = ?", patentID).Delete(&model.Interaction{}).Error; err != nil {
			return err
		}
		res := tx.Where("patent_id = ?", patentID).Delete(&model.Patent{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
