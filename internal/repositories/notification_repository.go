package repositories

import (
	"errors"

	"github.com/Nyaguthii-C/LetsChat/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	CreateNotification(db *gorm.DB, notification *models.Notification) error
	FindNotificationByID(db *gorm.DB, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, seen *bool) ([]models.Notification, error)
	FindUnseen(db *gorm.DB, userID string, limit int) ([]models.Notification, error)
	CountUnseen(db *gorm.DB, userID string) (int64, error)
	MarkSeen(db *gorm.DB, userID string, ids []string) ([]string, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) CreateNotification(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, seen *bool) ([]models.Notification, error) {
	query := db.Where("user_id = ?", userID)
	if seen != nil {
		query = query.Where("is_seen = ?", *seen)
	}
	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindUnseen returns the most recent unseen notifications, newest first.
func (r *NotificationRepositoryImpl) FindUnseen(db *gorm.DB, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.
		Where("user_id = ? AND is_seen = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) CountUnseen(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_seen = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkSeen flips is_seen on the caller's unseen notifications and returns
// the ids that actually changed. A nil or empty ids slice means all of them.
// Notifications owned by other users are never touched regardless of ids.
// The select and update run in one transaction so overlapping calls cannot
// both report the same notification as flipped.
func (r *NotificationRepositoryImpl) MarkSeen(db *gorm.DB, userID string, ids []string) ([]string, error) {
	affected := []string{}
	err := db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Notification{}).
			Where("user_id = ? AND is_seen = ?", userID, false)
		if len(ids) > 0 {
			query = query.Where("id IN ?", ids)
		}

		if err := query.Session(&gorm.Session{}).Pluck("id", &affected).Error; err != nil {
			return err
		}
		if len(affected) == 0 {
			return nil
		}

		res := tx.Model(&models.Notification{}).
			Where("id IN ? AND is_seen = ?", affected, false).
			Update("is_seen", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			affected = affected[:0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}
