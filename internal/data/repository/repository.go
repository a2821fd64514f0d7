package repository

import (
	"heart-predict/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User       UserRepository
	Session    SessionRepository
	OTP        OTPRepository
	Prediction PredictionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		OTP:        NewOTPRepository(db, log),
		Prediction: NewPredictionRepository(db, log),
	}
}
