package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/blsantos/InfiniteVideoWall/internal/auth"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/domain/repositories"
)

// AuthService handles admin login and current-user lookup.
type AuthService struct {
	users repositories.UserRepository
	jwt   *auth.JWTService
}

func NewAuthService(users repositories.UserRepository, jwt *auth.JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// LoginResult a successful login: the user and their session token.
type LoginResult struct {
	User  entities.User
	Token string
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password return the same error.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	invalid := &ServiceError{Type: ErrTypeAuth, Code: "invalid_credentials", Message: "invalid email or password"}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalid
		}
		return nil, NewDatabaseError("fetching user", err)
	}
	if !user.PasswordHash.Valid {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash.String), []byte(password)); err != nil {
		return nil, invalid
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email.String, user.IsAdmin)
	if err != nil {
		return nil, &ServiceError{Type: ErrTypeAuth, Code: "token_generation_failed", Message: "issuing session token", Err: err}
	}
	return &LoginResult{User: user, Token: token}, nil
}

// CurrentUser resolves the user behind a session token's subject.
func (s *AuthService) CurrentUser(userID string) (entities.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return entities.User{}, NewNotFoundError("user_not_found", "user not found")
		}
		return entities.User{}, NewDatabaseError("fetching user", err)
	}
	return user, nil
}
