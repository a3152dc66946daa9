package repository

import (
	"mekarsari-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.SalesSession) error
	Update(session *model.SalesSession) error
	FindByID(id uuid.UUID) (*model.SalesSession, error)

	// FindOpenByUser returns the user's open session (end_time IS NULL),
	// or gorm.ErrRecordNotFound.
	FindOpenByUser(userID uuid.UUID) (*model.SalesSession, error)

	// LockByID and LockOpenByUser read under a row lock inside tx so
	// concurrent settlements against the same shift serialize.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.SalesSession, error)
	LockOpenByUser(tx *gorm.DB, userID uuid.UUID) (*model.SalesSession, error)

	FindByUser(userID uuid.UUID) ([]model.SalesSession, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db}
}

func (r *sessionRepo) Create(session *model.SalesSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepo) Update(session *model.SalesSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepo) FindByID(id uuid.UUID) (*model.SalesSession, error) {
	var session model.SalesSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindOpenByUser(userID uuid.UUID) (*model.SalesSession, error) {
	var session model.SalesSession
	if err := r.db.Where("user_id = ? AND end_time IS NULL", userID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.SalesSession, error) {
	var session model.SalesSession
	if err := lockForUpdate(tx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) LockOpenByUser(tx *gorm.DB, userID uuid.UUID) (*model.SalesSession, error) {
	var session model.SalesSession
	if err := lockForUpdate(tx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindByUser(userID uuid.UUID) ([]model.SalesSession, error) {
	var sessions []model.SalesSession
	if err := r.db.Where("user_id = ?", userID).
		Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
