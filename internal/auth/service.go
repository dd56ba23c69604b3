package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrWrongPassword  = errors.New("password is incorrect")
)

// UserStore is the account persistence auth needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, id uint) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetPassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.User, error)
	Find(ctx context.Context, filter models.User) ([]models.User, error)
}

// AuthorCache is told when an account's public author block changes or goes away.
type AuthorCache interface {
	Forget(userID uint)
}

type Service struct {
	users     UserStore
	tokens    *Issuer
	blacklist Blacklist
	authors   AuthorCache
	log       *slog.Logger
}

func NewService(users UserStore, tokens *Issuer, blacklist Blacklist, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{users: users, tokens: tokens, blacklist: blacklist, log: log.With("component", "auth")}
}

// UseAuthorCache makes profile changes and deletions evict the account from c.
func (s *Service) UseAuthorCache(c AuthorCache) {
	s.authors = c
}

func (s *Service) forget(userID uint) {
	if s.authors != nil {
		s.authors.Forget(userID)
	}
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.User, string, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Handle:          strings.TrimSpace(req.Username),
		Password:        hash,
		ProfanityFilter: req.ProfanityFilter,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, forum.ErrConflict) {
			return models.User{}, "", fmt.Errorf("email or username: %w", forum.ErrConflict)
		}
		return models.User{}, "", err
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks the password and issues a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, forum.ErrNotFound) {
		return models.User{}, "", ErrBadCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}
	if !CheckPassword(user.Password, password) {
		return models.User{}, "", ErrBadCredentials
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Logout blacklists raw until it expires.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return err
	}
	if err := s.blacklist.Add(ctx, raw, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate accepts a token that is well formed, unexpired and not blacklisted.
func (s *Service) Authenticate(ctx context.Context, raw string) (Claims, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return Claims{}, err
	}
	revoked, err := s.blacklist.Contains(ctx, raw)
	if err != nil {
		return Claims{}, fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked {
		return Claims{}, fmt.Errorf("%w: logged out", ErrInvalidToken)
	}
	return claims, nil
}

// Profile returns the public view of one account.
func (s *Service) Profile(ctx context.Context, userID uint) (forum.Profile, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return forum.Profile{}, err
	}
	return forum.ProfileOf(user), nil
}

func (s *Service) Users(ctx context.Context) ([]forum.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return forum.ProfilesOf(users), nil
}

// FindUsers matches accounts on every field set in req.
func (s *Service) FindUsers(ctx context.Context, req models.FindUsersRequest) ([]forum.Profile, error) {
	filter := models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Handle:    strings.TrimSpace(req.Username),
	}
	if filter.FirstName == "" && filter.LastName == "" && filter.Handle == "" {
		return nil, fmt.Errorf("%w: no search fields given", forum.ErrInvalidInput)
	}
	users, err := s.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return forum.ProfilesOf(users), nil
}

// UpdateProfile applies the fields present in req to the caller's account.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req models.UpdateUserRequest) (models.User, error) {
	if req.FirstName == nil && req.LastName == nil && req.Email == nil && req.Username == nil && req.ProfanityFilter == nil {
		return models.User{}, fmt.Errorf("%w: no fields to update", forum.ErrInvalidInput)
	}
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	set := func(dst *string, src *string, name string) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return fmt.Errorf("%w: %s must not be empty", forum.ErrInvalidInput, name)
		}
		*dst = v
		return nil
	}
	if err := set(&user.FirstName, req.FirstName, "fname"); err != nil {
		return models.User{}, err
	}
	if err := set(&user.LastName, req.LastName, "lname"); err != nil {
		return models.User{}, err
	}
	if err := set(&user.Handle, req.Username, "username"); err != nil {
		return models.User{}, err
	}
	if err := set(&user.Email, req.Email, "email"); err != nil {
		return models.User{}, err
	}
	user.Email = strings.ToLower(user.Email)
	if req.ProfanityFilter != nil {
		user.ProfanityFilter = *req.ProfanityFilter
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, forum.ErrConflict) {
			return models.User{}, fmt.Errorf("email or username: %w", forum.ErrConflict)
		}
		return models.User{}, err
	}
	s.forget(user.ID)
	s.log.Info("profile updated", "user_id", user.ID)
	return user, nil
}

// UpdatePassword replaces the password once the current one is confirmed.
func (s *Service) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.Password, oldPassword) {
		return ErrWrongPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.log.Info("password changed", "user_id", user.ID)
	return nil
}

// DeleteAccount removes targetID and everything it wrote. Only the account
// owner may do it; the token used is revoked afterwards.
func (s *Service) DeleteAccount(ctx context.Context, actorID, targetID uint, raw string) error {
	if _, err := s.users.ByID(ctx, targetID); err != nil {
		return err
	}
	if actorID != targetID {
		return forum.ErrUnauthorized
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.forget(targetID)
	s.log.Info("account deleted", "user_id", targetID)

	if raw == "" {
		return nil
	}
	return s.Logout(ctx, raw)
}
