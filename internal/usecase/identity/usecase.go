package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"udhar-ledger/internal/domain/errs"
	"udhar-ledger/internal/domain/user"
	"udhar-ledger/internal/usecase/storeerr"
	"udhar-ledger/pkg/id"
)

type Usecase struct {
	users user.Repository
	log   *zap.Logger
	cost  int
}

// NewUsecase hashes with bcrypt.DefaultCost unless overridden by WithCost.
func NewUsecase(users user.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, log: log, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt work factor; tests use bcrypt.MinCost.
func (u *Usecase) WithCost(cost int) *Usecase {
	u.cost = cost
	return u
}

func (u *Usecase) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Name == "":
		return nil, errs.Validation("name is required")
	case in.Phone == "":
		return nil, errs.Validation("phone is required")
	case in.Password == "":
		return nil, errs.Validation("password is required")
	case in.Confirm != "" && in.Confirm != in.Password:
		return nil, errs.Validation("passwords do not match")
	}

	// checked up front for a clear message; the unique index still decides races
	if _, err := u.users.GetByPhone(ctx, in.Phone); err == nil {
		return nil, errs.Conflict("phone %s is already registered", in.Phone)
	} else if !storeerr.IsNotFound(err) {
		return nil, err
	}
	var email *string
	if in.Email != "" {
		if _, err := u.users.GetByEmail(ctx, in.Email); err == nil {
			return nil, errs.Conflict("email %s is already registered", in.Email)
		} else if !storeerr.IsNotFound(err) {
			return nil, err
		}
		email = &in.Email
	}

	digest, err := u.hash(in.Password)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		UserID:       id.NewID32(),
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        email,
		PasswordHash: digest,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, storeerr.Map(err, "user", in.Phone)
	}
	u.log.Info("user registered", zap.String("user_id", usr.UserID))
	return toDTO(usr), nil
}

// Authenticate accepts a phone number or an email as login.
func (u *Usecase) Authenticate(ctx context.Context, in LoginInput) (*UserDTO, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, errs.ErrInvalidCredentials
	}
	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	return toDTO(usr), nil
}

// EnsureAdmin creates the bootstrap administrator when none exists and
// returns it. It returns nil when an administrator is already present.
func (u *Usecase) EnsureAdmin(ctx context.Context, def AdminDefaults) (*UserDTO, error) {
	n, err := u.users.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}
	if _, err := u.users.GetByPhone(ctx, def.Phone); err == nil {
		return nil, errs.Conflict("bootstrap admin phone %s belongs to a regular user", def.Phone)
	} else if !storeerr.IsNotFound(err) {
		return nil, err
	}

	digest, err := u.hash(def.Password)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		UserID:       id.NewID32(),
		Name:         def.Name,
		Phone:        def.Phone,
		PasswordHash: digest,
		IsAdmin:      true,
	}
	if def.Email != "" {
		email := def.Email
		usr.Email = &email
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, storeerr.Map(err, "user", def.Phone)
	}
	u.log.Warn("no administrator found, created default admin; change its password now",
		zap.String("phone", def.Phone),
		zap.String("email", def.Email),
	)
	return toDTO(usr), nil
}

func (u *Usecase) loadUser(ctx context.Context, userID string) (*user.User, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeerr.Map(err, "user", userID)
	}
	return usr, nil
}

// ToggleAdmin flips the admin flag of target. Actor and target must differ.
func (u *Usecase) ToggleAdmin(ctx context.Context, actorID, targetID string) (*UserDTO, error) {
	actor, err := u.loadUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, errs.ErrForbidden
	}
	if actorID == targetID {
		return nil, errs.Validation("administrators cannot change their own role")
	}
	target, err := u.loadUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	target.IsAdmin = !target.IsAdmin
	if err := u.users.Save(ctx, target); err != nil {
		return nil, err
	}
	u.log.Info("admin flag toggled",
		zap.String("actor", actorID),
		zap.String("target", targetID),
		zap.Bool("is_admin", target.IsAdmin),
	)
	return toDTO(target), nil
}

func (u *Usecase) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if in.New == "" {
		return errs.Validation("new password is required")
	}
	usr, err := u.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Old)); err != nil {
		return errs.ErrInvalidCredentials
	}
	digest, err := u.hash(in.New)
	if err != nil {
		return err
	}
	usr.PasswordHash = digest
	return u.users.Save(ctx, usr)
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) List(ctx context.Context) ([]UserDTO, error) {
	all, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(all))
	for i := range all {
		out = append(out, *toDTO(&all[i]))
	}
	return out, nil
}

// IsAdmin reads the current flag from the store, so revoked rights apply
// before the caller's token expires.
func (u *Usecase) IsAdmin(ctx context.Context, userID string) (bool, error) {
	usr, err := u.loadUser(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return usr.IsAdmin, nil
}
