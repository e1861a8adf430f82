// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/adapter"
	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/internal/validators"
	"github.com/MKhiriev/go-image-gen/models"
)

// authService is the concrete implementation of AuthService.
// Passwords are stored as bcrypt hashes and tokens are HS256 JWTs.
type authService struct {
	userRepository   store.UserRepository
	identityVerifier adapter.IdentityVerifier
	validator        validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService populated with token parameters
// from cfg.
func NewAuthService(
	userRepository store.UserRepository,
	identityVerifier adapter.IdentityVerifier,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository:   userRepository,
		identityVerifier: identityVerifier,
		validator:        validator,
		tokenSignKey:     cfg.TokenSignKey,
		tokenIssuer:      cfg.TokenIssuer,
		tokenDuration:    cfg.TokenDuration,
		logger:           logger,
	}
}

// RegisterUser validates req, rejects a taken username or email with
// store.ErrUserAlreadyExists and stores the account with a bcrypt hash.
func (a *authService) RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*authService.RegisterUser").Logger()

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Msg("invalid registration data")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	exists, err := a.userRepository.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		log.Err(err).Msg("checking username and email availability failed")
		return models.User{}, fmt.Errorf("checking username and email availability failed: %w", err)
	}
	if exists {
		log.Debug().Str("username", req.Username).Str("email", req.Email).Msg("username or email already taken")
		return models.User{}, store.ErrUserAlreadyExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, err
	}

	username := req.Username
	user, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     &username,
		Email:        req.Email,
		PasswordHash: &hash,
	})
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Msg("user registered")
	return user, nil
}

// Login authenticates an existing password account.
//
// An unknown email, an account without a password and a wrong password all
// return ErrInvalidCredentials after a comparable amount of bcrypt work.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*authService.Login").Logger()

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Msg("invalid login data")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			utils.BurnPasswordCheck(req.Password)
			log.Debug().Msg("login attempt for unknown email")
			return models.User{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !user.HasPassword() {
		utils.BurnPasswordCheck(req.Password)
		log.Debug().Int64("user_id", user.UserID).Msg("password login for federated-only account")
		return models.User{}, ErrInvalidCredentials
	}

	if err = utils.ComparePassword(*user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			log.Debug().Int64("user_id", user.UserID).Msg("wrong password")
			return models.User{}, ErrInvalidCredentials
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("password comparison failed")
		return models.User{}, err
	}

	return user, nil
}

// FederatedLogin verifies req.Token with the identity provider and links the
// asserted email to a local account, creating a password-less one on first
// login.
//
// Provider rejections are returned as adapter.ErrInvalidIdentity or
// adapter.ErrNoEmailClaim; transport failures as adapter.ErrProvider.
func (a *authService) FederatedLogin(ctx context.Context, req models.FederatedLoginRequest) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*authService.FederatedLogin").Logger()

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Msg("missing federated token")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	identity, err := a.identityVerifier.Verify(ctx, req.Token)
	if err != nil {
		log.Warn().Err(err).Msg("identity verification failed")
		return models.User{}, err
	}

	user, err := a.userRepository.FindUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	user, err = a.userRepository.CreateUser(ctx, models.User{Email: identity.Email})
	if errors.Is(err, store.ErrUserAlreadyExists) {
		// a concurrent first login for the same email won the insert
		user, err = a.userRepository.FindUserByEmail(ctx, identity.Email)
	}
	if err != nil {
		log.Err(err).Msg("federated user creation failed")
		return models.User{}, fmt.Errorf("federated user creation failed: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Msg("federated user created")
	return user, nil
}

// CreateToken issues a signed JWT for user, valid for the configured duration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, user.Email, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*authService.CreateToken").Msg("token generation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates a raw JWT. Expired, malformed, foreign-issuer and
// wrongly signed tokens are all normalised to ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// GetUser returns store.ErrNoUserWasFound if the account no longer exists.
func (a *authService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}
