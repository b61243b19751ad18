package repos

import (
	"github.com/tauraamui/kinectone/pkg/database/dbconn"
	"github.com/tauraamui/kinectone/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type SnapshotRepository struct {
	DB dbconn.GormWrapper
}

func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	return r.DB.Create(snapshot).Error()
}

func (r *SnapshotRepository) FindByUUID(uuid string) (models.Snapshot, error) {
	snapshot := models.Snapshot{}
	if err := r.DB.Where("uuid = ?", uuid).First(&snapshot).Error(); err != nil {
		return snapshot, xerror.Errorf("snapshot of uuid %s not found", uuid)
	}

	return snapshot, nil
}

// ListBySerial returns up to limit snapshots of one device, newest
// first. A limit below one returns them all.
func (r *SnapshotRepository) ListBySerial(serial string, limit int) ([]models.Snapshot, error) {
	snapshots := []models.Snapshot{}
	q := r.DB.Where("serial = ?", serial).Order("sequence desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&snapshots).Error(); err != nil {
		return nil, xerror.Errorf("unable to list snapshots of device %s: %w", serial, err)
	}

	return snapshots, nil
}
