package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/internal/model"
)

const tripleCondition = "kind = ? AND from_user_id = ? AND to_user_id = ? AND patent_id = ?"

// ToggleResult describes what a toggle did to the (kind, from, to, patent) record.
type ToggleResult struct {
	Interaction *model.Interaction
	Created     bool
	Flipped     bool
}

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Toggle creates the record active on first sight. On later calls the flag is
// negated in a single UPDATE when flip is true, and left untouched otherwise.
// A concurrent first insert that loses the unique index race is retried once
// as a flip, so two racing calls never leave two rows.
func (r *InteractionRepository) Toggle(in *model.Interaction, flip bool) (*ToggleResult, error) {
	result, err := r.toggleOnce(in, flip)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		result, err = r.toggleOnce(in, flip)
	}
	return result, err
}

func (r *InteractionRepository) toggleOnce(in *model.Interaction, flip bool) (*ToggleResult, error) {
	result := &ToggleResult{}
	args := []interface{}{in.Kind, in.From.UserID, in.To.UserID, in.PatentDetails.PatentID}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var matched int64
		if flip {
			res := tx.Model(&model.Interaction{}).Where(tripleCondition, args...).
				Updates(map[string]interface{}{
					"flag":       gorm.Expr("NOT flag"),
					"updated_at": time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			matched = res.RowsAffected
			result.Flipped = matched > 0
		} else {
			if err := tx.Model(&model.Interaction{}).Where(tripleCondition, args...).Count(&matched).Error; err != nil {
				return err
			}
		}

		if matched == 0 {
			rec := *in
			rec.ID = 0
			rec.Flag = true
			if rec.Date.IsZero() {
				rec.Date = time.Now()
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			result.Created = true
		}

		var current model.Interaction
		if err := tx.Where(tripleCondition, args...).First(&current).Error; err != nil {
			return err
		}
		result.Interaction = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *InteractionRepository) GetByTriple(kind model.InteractionKind, fromUserID, toUserID, patentID string) (*model.Interaction, error) {
	var rec model.Interaction
	err := r.db.Where(tripleCondition, kind, fromUserID, toUserID, patentID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DoerPatentIDs patents the user currently has an active record of this kind on.
func (r *InteractionRepository) DoerPatentIDs(kind model.InteractionKind, userID string) ([]string, error) {
	return r.activePatentIDs(kind, "from_user_id = ?", userID)
}

// ReceivedPatentIDs patents of this owner that currently hold an active record of this kind.
// A patent appears once per active doer.
func (r *InteractionRepository) ReceivedPatentIDs(kind model.InteractionKind, userID string) ([]string, error) {
	return r.activePatentIDs(kind, "to_user_id = ?", userID)
}

func (r *InteractionRepository) activePatentIDs(kind model.InteractionKind, cond string, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.Model(&model.Interaction{}).
		Where("kind = ? AND flag = ?", kind, true).
		Where(cond, userID).
		Order("id ASC").
		Pluck("patent_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

// CountOrphans interactions whose patent no longer exists.
func (r *InteractionRepository) CountOrphans() (int64, error) {
	var count int64
	err := r.db.Model(&model.Interaction{}).
		Where("patent_id NOT IN (?)", r.db.Model(&model.Patent{}).Select("patent_id")).
		Count(&count).Error
	return count, err
}

// DeleteOrphans removes interactions whose patent no longer exists.
func (r *InteractionRepository) DeleteOrphans() (int64, error) {
	res := r.db.Where("patent_id NOT IN (?)", r.db.Model(&model.Patent{}).Select("patent_id")).
		Delete(&model.Interaction{})
	return res.RowsAffected, res.Error
}
