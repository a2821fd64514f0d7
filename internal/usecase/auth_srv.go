package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heart-predict/internal/data/entity"
	"heart-predict/internal/data/repository"
	"heart-predict/internal/dto/request"
	"heart-predict/internal/dto/response"
	"heart-predict/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	SendOTP(ctx context.Context, email string, otpType entity.OTPType) error
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	req.Normalize()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if err := s.checkUnique(ctx, req); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	user := entity.NewUser(req.Username, req.Email, req.PhoneNumber, hashedPassword, entity.RoleUser, time.Now())

	// The unique indexes still guard against a concurrent registration
	// slipping between the checks above and this insert.
	if err := s.repo.User.Create(ctx, user); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, duplicateMessage(dup.Field)
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	go s.sendVerificationOTP(user.Email)

	// Auto login after register
	session, token, err := s.createSession(ctx, user)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.Int64("user_id", user.ID))
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session, token)
	return &resp, nil
}

func (s *authService) checkUnique(ctx context.Context, req *request.RegisterRequest) error {
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return duplicateMessage("email")
	}

	existingUser, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return fmt.Errorf("failed to check username")
	}
	if existingUser != nil {
		return duplicateMessage("username")
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		existingUser, err = s.repo.User.FindByPhoneNumber(ctx, *req.PhoneNumber)
		if err != nil {
			s.log.Error("Failed to check phone number", zap.Error(err))
			return fmt.Errorf("failed to check phone number")
		}
		if existingUser != nil {
			return duplicateMessage("phonenumber")
		}
	}

	return nil
}

func duplicateMessage(field string) error {
	switch field {
	case "email":
		return fmt.Errorf("email already registered")
	case "username":
		return fmt.Errorf("username already taken")
	case "phonenumber":
		return fmt.Errorf("phone number already registered")
	default:
		return fmt.Errorf("%s already exists", field)
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	identifier := strings.TrimSpace(req.Username)

	// Accept either email or username
	user, err := s.repo.User.FindByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("identifier", identifier))
		return nil, fmt.Errorf("failed to find user")
	}

	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, identifier)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err), zap.String("identifier", identifier))
			return nil, fmt.Errorf("failed to find user")
		}
	}

	if user == nil {
		s.log.Warn("User not found for login", zap.String("identifier", identifier))
		return nil, fmt.Errorf("invalid credentials")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("invalid credentials")
	}

	session, token, err := s.createSession(ctx, user)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	resp := response.AuthToResponse(user, session, token)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		s.log.Warn("Invalid session id", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("invalid session")
	}

	if err := s.repo.Session.Revoke(ctx, sessionID); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err), zap.String("session_id", sessionID))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("User logged out", zap.String("session_id", sessionID))
	return nil
}

func (s *authService) SendOTP(ctx context.Context, email string, otpType entity.OTPType) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if otpType == entity.OTPTypeEmailVerification && user.IsVerified {
		return fmt.Errorf("email already verified")
	}

	now := time.Now()
	otpCode := utils.GenerateOTP(s.config.OTP.Length)
	expiresAt := now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	otp := &entity.OTP{
		BaseToken: entity.BaseToken{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     email,
		OTPCode:   otpCode,
		OTPType:   otpType,
		ExpiresAt: expiresAt,
		IsUsed:    false,
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to generate OTP")
	}

	// No mail transport is configured; the code is delivered through the log.
	s.log.Info("OTP generated",
		zap.String("email", email),
		zap.String("otp_code", otpCode),
		zap.String("otp_type", string(otpType)),
		zap.Time("expires_at", expiresAt),
	)

	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify email validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	otp, err := s.repo.OTP.FindValidOTP(ctx, email, req.OTP, entity.OTPTypeEmailVerification)
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to verify OTP")
	}
	if otp == nil {
		return fmt.Errorf("invalid or expired OTP")
	}

	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		s.log.Warn("Failed to mark OTP as used", zap.Error(err), zap.String("otp_id", otp.ID.String()))
	}

	user, err := s.repo.User.FindByID(ctx, otp.UserID)
	if err != nil || user == nil {
		s.log.Error("User not found for verification", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("user not found")
	}

	user.IsVerified = true
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user verification", zap.Error(err), zap.Int64("user_id", user.ID))
		return fmt.Errorf("failed to verify email")
	}

	s.log.Info("Email verified",
		zap.String("email", email),
		zap.Int64("user_id", user.ID))

	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, user *entity.User) (*entity.Session, string, error) {
	now := time.Now()
	expiry := time.Duration(s.config.Auth.TokenExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	session := &entity.Session{
		BaseToken: entity.BaseToken{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		ExpiresAt: now.Add(expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), session.ID.String(),
		[]byte(s.config.App.SecretKey), session.ExpiresAt)
	if err != nil {
		return nil, "", err
	}

	return session, token, nil
}

func (s *authService) sendVerificationOTP(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.SendOTP(ctx, email, entity.OTPTypeEmailVerification); err != nil {
		s.log.Error("Failed to send verification OTP", zap.Error(err), zap.String("email", email))
	}
}
