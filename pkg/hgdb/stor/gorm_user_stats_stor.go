package stor

import (
	"errors"
	"time"

	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"gorm.io/gorm"
)

type GormUserStatsStor struct {
	db *gorm.DB
}

func NewGormUserStatsStor(db *gorm.DB) *GormUserStatsStor {
	return &GormUserStatsStor{db: db}
}

func (s *GormUserStatsStor) GetStatsForUser(userID int) (*hgmodel.UserStats, error) {
	var stats hgmodel.UserStats
	if err := s.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// RecomputeStatsForUser rebuilds the contributor aggregates from the
// entities table. It is called by the stats refresher after workflow
// events, never from inside a transition transaction.
func (s *GormUserStatsStor) RecomputeStatsForUser(userID int) (*hgmodel.UserStats, error) {
	var (
		totalSubmissions int64
		acceptedCount    int64
		rejectedCount    int64
	)

	entityForContributor := s.db.Model(&hgmodel.CulturalEntity{}).Where("contributor_id = ?", userID)

	if err := entityForContributor.Count(&totalSubmissions).Error; err != nil {
		return nil, err
	}

	err := s.db.Model(&hgmodel.CulturalEntity{}).
		Where("contributor_id = ?", userID).
		Where("status = ?", hgmodel.StatusAccepted).
		Count(&acceptedCount).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&hgmodel.CulturalEntity{}).
		Where("contributor_id = ?", userID).
		Where("status = ?", hgmodel.StatusRejected).
		Count(&rejectedCount).Error
	if err != nil {
		return nil, err
	}

	approvalRate := 0.0
	if reviewed := acceptedCount + rejectedCount; reviewed > 0 {
		approvalRate = float64(acceptedCount) / float64(reviewed) * 100
	}

	stats := &hgmodel.UserStats{
		UserID:           userID,
		TotalSubmissions: int(totalSubmissions),
		AcceptedCount:    int(acceptedCount),
		RejectedCount:    int(rejectedCount),
		ApprovalRate:     approvalRate,
		LastActivityAt:   time.Now(),
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		var existing hgmodel.UserStats
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(stats).Error
		case err != nil:
			return err
		default:
			stats.ID = existing.ID
			return tx.Model(&existing).Updates(map[string]interface{}{
				"total_submissions": stats.TotalSubmissions,
				"accepted_count":    stats.AcceptedCount,
				"rejected_count":    stats.RejectedCount,
				"approval_rate":     stats.ApprovalRate,
				"last_activity_at":  stats.LastActivityAt,
			}).Error
		}
	})

	if err != nil {
		return nil, err
	}

	return stats, nil
}
