package service

import (
	"errors"
	"time"

	"mekarsari-pos/internal/model"
	"mekarsari-pos/internal/repository"
	"mekarsari-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CloseShiftSummary is the reconciliation returned when a cashier closes the
// drawer: difference = physical cash - (starting float + system sales).
type CloseShiftSummary struct {
	SessionID   uuid.UUID       `json:"session_id"`
	StartCash   decimal.Decimal `json:"start_cash"`
	TotalSystem decimal.Decimal `json:"total_system"`
	Expected    decimal.Decimal `json:"expected_cash"`
	ActualCash  decimal.Decimal `json:"actual_cash"`
	Difference  decimal.Decimal `json:"difference"`
}

type ShiftService interface {
	OpenShift(userID uuid.UUID, startCash decimal.Decimal) (*model.SalesSession, error)
	CloseShift(userID uuid.UUID, endCashActual decimal.Decimal) (*CloseShiftSummary, error)
	ActiveSession(userID uuid.UUID) (*model.SalesSession, error)
}

type shiftService struct {
	sessionRepo repository.SessionRepository
	db          *gorm.DB
}

func NewShiftService(sessionRepo repository.SessionRepository, db *gorm.DB) ShiftService {
	return &shiftService{sessionRepo: sessionRepo, db: db}
}

// OpenShift starts a new working period for the cashier. One open session
// per user is an invariant: a second open attempt is a conflict, not a
// replacement.
func (s *shiftService) OpenShift(userID uuid.UUID, startCash decimal.Decimal) (*model.SalesSession, error) {
	if startCash.IsNegative() {
		return nil, apperr.Validationf("starting cash cannot be negative")
	}

	if existing, err := s.sessionRepo.FindOpenByUser(userID); err == nil && existing != nil {
		return nil, apperr.Conflictf("shift already open since %s, close it first",
			existing.StartTime.Format("2006-01-02 15:04"))
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Persistencef(err, "failed to check active shift")
	}

	session := &model.SalesSession{
		UserID:      userID,
		StartTime:   time.Now(),
		StartCash:   startCash,
		TotalSystem: decimal.Zero,
	}
	session.CreatedBy = userID.String()
	session.UpdatedBy = userID.String()

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, apperr.Persistencef(err, "failed to open shift")
	}
	return session, nil
}

// CloseShift reconciles the drawer against the system total. It reports the
// difference but never blocks on it: the money is counted, the shift ends.
func (s *shiftService) CloseShift(userID uuid.UUID, endCashActual decimal.Decimal) (*CloseShiftSummary, error) {
	var summary *CloseShiftSummary

	err := s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessionRepo.LockOpenByUser(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Statef("no active shift to close")
			}
			return apperr.Persistencef(err, "failed to load active shift")
		}

		now := time.Now()
		session.EndTime = &now
		session.EndCashActual = &endCashActual
		session.UpdatedBy = userID.String()

		if err := tx.Save(session).Error; err != nil {
			return apperr.Persistencef(err, "failed to close shift")
		}

		expected := session.StartCash.Add(session.TotalSystem)
		summary = &CloseShiftSummary{
			SessionID:   session.ID,
			StartCash:   session.StartCash,
			TotalSystem: session.TotalSystem,
			Expected:    expected,
			ActualCash:  endCashActual,
			Difference:  endCashActual.Sub(expected),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ActiveSession returns the user's open session or nil.
func (s *shiftService) ActiveSession(userID uuid.UUID) (*model.SalesSession, error) {
	session, err := s.sessionRepo.FindOpenByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Persistencef(err, "failed to load active shift")
	}
	return session, nil
}

// recordSettlement credits (or, for reversals, debits) an order's amount to
// the owning session's system total. Runs inside the caller's transaction
// with the session row locked, so concurrent settlements serialize.
func recordSettlement(tx *gorm.DB, sessions repository.SessionRepository, sessionID uuid.UUID, amount decimal.Decimal) error {
	session, err := sessions.LockByID(tx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("sales session not found")
		}
		return apperr.Persistencef(err, "failed to load sales session")
	}

	newTotal := session.TotalSystem.Add(amount)
	err = tx.Model(&model.SalesSession{}).
		Where("id = ?", session.ID).
		Update("total_system", newTotal).Error
	if err != nil {
		return apperr.Persistencef(err, "failed to update shift total")
	}
	return nil
}
