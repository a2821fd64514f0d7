package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"heart-predict/internal/data/entity"
	"heart-predict/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the postgres repositories. Register
// sends its OTP from a goroutine, so every access is locked.
type memStore struct {
	mu          sync.Mutex
	users       map[int64]*entity.User
	sessions    map[uuid.UUID]*entity.Session
	otps        []*entity.OTP
	predictions map[int64]*entity.Prediction
	nextID      int64
	failCreate  error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]*entity.User),
		sessions:    make(map[uuid.UUID]*entity.Session),
		predictions: make(map[int64]*entity.Prediction),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:       memUsers{m},
		Session:    memSessions{m},
		OTP:        memOTPs{m},
		Prediction: memPredictions{m},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) otpCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.otps)
}

func (m *memStore) predictionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.predictions)
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		switch {
		case u.Username == user.Username:
			return &repository.DuplicateError{Field: "username"}
		case u.Email == user.Email:
			return &repository.DuplicateError{Field: "email"}
		case u.PhoneNumber != nil && user.PhoneNumber != nil && *u.PhoneNumber == *user.PhoneNumber:
			return &repository.DuplicateError{Field: "phonenumber"}
		}
	}

	user.ID = r.id()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r memUsers) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DeletedAt == nil && match(u) {
			found := *u
			return &found
		}
	}
	return nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r memUsers) FindByPhoneNumber(_ context.Context, phone string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.PhoneNumber != nil && *u.PhoneNumber == phone }), nil
}

func (r memUsers) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.User
	for _, u := range r.users {
		if u.DeletedAt == nil {
			found := *u
			all = append(all, &found)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memUsers) CountAll(ctx context.Context) (int64, error) {
	all, _ := r.FindAll(ctx, 1<<30, 0)
	return int64(len(all)), nil
}

func (r memUsers) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, repository.ErrNotFound)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	now := u.UpdatedAt
	u.DeletedAt = &now
	return nil
}

type memSessions struct{ *memStore }

func (r memSessions) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r memSessions) FindValidSession(_ context.Context, sessionID string) (*entity.Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	found := *s
	return &found, nil
}

func (r memSessions) Revoke(_ context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.RevokedAt != nil {
		return fmt.Errorf("session %s not found or already revoked", sessionID)
	}
	now := s.CreatedAt
	s.RevokedAt = &now
	return nil
}

func (r memSessions) RevokeAllUserSessions(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			now := s.CreatedAt
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r memSessions) CleanExpiredSessions(context.Context) error { return nil }

type memOTPs struct{ *memStore }

func (r memOTPs) Create(_ context.Context, otp *entity.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *otp
	r.otps = append(r.otps, &stored)
	return nil
}

func (r memOTPs) FindValidOTP(_ context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.otps) - 1; i >= 0; i-- {
		o := r.otps[i]
		if o.Email == email && o.OTPCode == code && o.OTPType == otpType && !o.IsUsed {
			found := *o
			return &found, nil
		}
	}
	return nil, nil
}

func (r memOTPs) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == id {
			o.IsUsed = true
			return nil
		}
	}
	return fmt.Errorf("OTP %s not found", id)
}

type memPredictions struct{ *memStore }

func (r memPredictions) Create(_ context.Context, p *entity.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	p.ID = r.id()
	stored := *p
	r.predictions[p.ID] = &stored
	return nil
}

func (r memPredictions) FindByID(_ context.Context, id int64) (*entity.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.predictions[id]
	if !ok {
		return nil, nil
	}
	found := *p
	return &found, nil
}

func (r memPredictions) FindByUserID(_ context.Context, userID int64, limit, offset int) ([]*entity.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Prediction, 0)
	for _, p := range r.predictions {
		if p.UserID == userID {
			found := *p
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if offset >= len(out) {
		return []*entity.Prediction{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r memPredictions) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	all, _ := r.FindByUserID(ctx, userID, 1<<30, 0)
	return int64(len(all)), nil
}

func (r memPredictions) Delete(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.predictions[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("prediction %d: %w", id, repository.ErrNotFound)
	}
	delete(r.predictions, id)
	return nil
}
