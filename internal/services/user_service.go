package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/api/validate"
	"github.com/baharkarakas/taskmanager-backend/internal/auth"
	"github.com/baharkarakas/taskmanager-backend/internal/config"
	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
	"github.com/baharkarakas/taskmanager-backend/internal/models"
	"github.com/baharkarakas/taskmanager-backend/internal/notify"
	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
)

// Mailer queues outbound mail without waiting for delivery.
type Mailer interface {
	Dispatch(msg notify.Message)
}

type UserService struct {
	repos repo.Repositories
	tm    *auth.TokenManager
	mail  Mailer
	log   *slog.Logger
	c     config.Config
	now   func() time.Time
}

func NewUserService(repos repo.Repositories, tm *auth.TokenManager, mail Mailer, log *slog.Logger, c config.Config) *UserService {
	return &UserService{repos: repos, tm: tm, mail: mail, log: log, c: c, now: time.Now}
}

// bcrypt only reads the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

var (
	nameRules     = []validate.Rule[string]{validate.Required()}
	emailRules    = []validate.Rule[string]{validate.Required(), validate.Email()}
	passwordRules = []validate.Rule[string]{
		validate.Required(),
		validate.MinLen(7),
		validate.MaxBytes(maxPasswordBytes),
		validate.NotContainsFold("password"),
	}
	ageRules      = []validate.Rule[int]{validate.MinInt(0)}
)

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *UserService) Signup(ctx context.Context, in SignupInput) (models.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if err := validate.Collect(
		validate.Field("name", in.Name, nameRules...),
		validate.Field("email", in.Email, emailRules...),
		validate.Field("password", in.Password, passwordRules...),
		validate.Field("age", in.Age, ageRules...),
	); err != nil {
		s.record("signup", err)
		return models.User{}, "", invalid(err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	var (
		user  models.User
		token string
	)
	err = s.repos.Tx.WithTx(ctx, func(r repo.Repositories) error {
		u, err := r.Users.Create(ctx, models.User{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			Age:          in.Age,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return invalidField("email", "is already in use")
		}
		if err != nil {
			return err
		}
		tok, err := s.issueToken(ctx, r, u.ID)
		if err != nil {
			return err
		}
		user, token = u, tok
		return nil
	})
	s.record("signup", err)
	if err != nil {
		return models.User{}, "", err
	}

	s.mail.Dispatch(notify.Welcome(user.Name, user.Email))
	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, token, nil
}

// Login never tells the caller which of email or password was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		s.record("login", ErrInvalidCredentials)
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}
	if err := auth.VerifyPassword(strings.TrimSpace(password), u.PasswordHash); err != nil {
		s.record("login", ErrInvalidCredentials)
		return models.User{}, "", ErrInvalidCredentials
	}

	var token string
	err = s.repos.Tx.WithTx(ctx, func(r repo.Repositories) error {
		token, err = s.issueToken(ctx, r, u.ID)
		return err
	})
	s.record("login", err)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

func (s *UserService) Logout(ctx context.Context, u models.User, token string) error {
	err := s.repos.Tokens.Remove(ctx, u.ID, token)
	s.record("logout", err)
	return err
}

func (s *UserService) LogoutAll(ctx context.Context, u models.User) error {
	err := s.repos.Tokens.RemoveAll(ctx, u.ID)
	s.record("logout_all", err)
	return err
}

// Authenticate resolves a bearer token to its user. The token must verify
// and still be in the user's session list.
func (s *UserService) Authenticate(ctx context.Context, token string) (models.User, error) {
	uid, err := s.tm.Verify(token)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}
	u, err := s.repos.Users.GetByID(ctx, uid)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}
	ok, err := s.repos.Tokens.Exists(ctx, uid, token, s.now())
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrUnauthenticated
	}
	return u, nil
}

func (s *UserService) Profile(u models.User) models.User { return u }

// UpdateProfile applies a partial update. A key outside name, email,
// password and age rejects the whole request.
func (s *UserService) UpdateProfile(ctx context.Context, u models.User, f Fields) (models.User, error) {
	if err := f.only("name", "email", "password", "age"); err != nil {
		return models.User{}, err
	}

	next := u
	var password string
	if _, err := f.decode("name", &next.Name); err != nil {
		return models.User{}, err
	}
	if _, err := f.decode("email", &next.Email); err != nil {
		return models.User{}, err
	}
	if _, err := f.decode("age", &next.Age); err != nil {
		return models.User{}, err
	}
	setPassword, err := f.decode("password", &password)
	if err != nil {
		return models.User{}, err
	}

	next.Name = strings.TrimSpace(next.Name)
	next.Email = normalizeEmail(next.Email)
	checks := []*validate.ErrField{
		validate.Field("name", next.Name, nameRules...),
		validate.Field("email", next.Email, emailRules...),
		validate.Field("age", next.Age, ageRules...),
	}
	if setPassword {
		password = strings.TrimSpace(password)
		checks = append(checks, validate.Field("password", password, passwordRules...))
	}
	if err := validate.Collect(checks...); err != nil {
		return models.User{}, invalid(err)
	}

	if setPassword {
		if next.PasswordHash, err = s.hashPassword(password); err != nil {
			return models.User{}, err
		}
	}

	out, err := s.repos.Users.Update(ctx, next)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return models.User{}, invalidField("email", "is already in use")
	case errors.Is(err, repo.ErrNotFound):
		return models.User{}, ErrNotFound
	case err != nil:
		return models.User{}, err
	}
	return out, nil
}

// DeleteAccount removes the user and every task they own in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, u models.User) (models.User, error) {
	err := s.repos.Tx.WithTx(ctx, func(r repo.Repositories) error {
		return s.cascadeDelete(ctx, r, u.ID)
	})
	s.record("delete", err)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	s.mail.Dispatch(notify.Farewell(u.Name, u.Email))
	return u, nil
}

func (s *UserService) cascadeDelete(ctx context.Context, r repo.Repositories, userID string) error {
	n, err := r.Tasks.DeleteByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if err := r.Users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", "user_id", userID, "tasks", n)
	return nil
}

var avatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

func (s *UserService) SetAvatar(ctx context.Context, u models.User, data []byte) error {
	if len(data) == 0 {
		return invalidField("avatar", "required")
	}
	if int64(len(data)) > s.c.AvatarMaxBytes {
		return invalidField("avatar", "must be at most "+strconv.FormatInt(s.c.AvatarMaxBytes, 10)+" bytes")
	}
	ct := http.DetectContentType(data)
	if !avatarTypes[ct] {
		return invalidField("avatar", "please upload a png or jpeg image")
	}
	return notFound(s.repos.Users.SetAvatar(ctx, u.ID, data, ct))
}

func (s *UserService) ClearAvatar(ctx context.Context, u models.User) error {
	return notFound(s.repos.Users.SetAvatar(ctx, u.ID, nil, ""))
}

func (s *UserService) Avatar(ctx context.Context, userID string) ([]byte, string, error) {
	data, ct, err := s.repos.Users.GetAvatar(ctx, userID)
	if err != nil {
		return nil, "", notFound(err)
	}
	return data, ct, nil
}

// issueToken signs a token and appends it to the user's sessions, dropping
// the oldest beyond MaxSessions.
func (s *UserService) issueToken(ctx context.Context, r repo.Repositories, userID string) (string, error) {
	tok, exp, err := s.tm.Issue(userID)
	if err != nil {
		return "", err
	}
	if err := r.Tokens.Add(ctx, models.Token{
		UserID:    userID,
		Token:     tok,
		CreatedAt: s.now(),
		ExpiresAt: exp,
	}); err != nil {
		return "", err
	}
	if err := r.Tokens.TrimTo(ctx, userID, s.c.MaxSessions); err != nil {
		return "", err
	}
	return tok, nil
}

func (s *UserService) hashPassword(p string) (string, error) {
	return auth.HashPassword(p, s.c.BcryptCost)
}

func (s *UserService) record(event string, err error) {
	metrics.AuthEventsTotal.WithLabelValues(event, metrics.Result(err)).Inc()
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
