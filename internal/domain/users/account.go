package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"correspondance-app/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

const msgAlreadyRegistered = "L'email ou le login sont déjà inscrits dans notre base de données"

type RegisterInput struct {
	Login    string `form:"login" json:"login"`
	Email    string `form:"email" json:"email"`
	Name     string `form:"nom" json:"nom"`
	Password string `form:"motdepasse" json:"motdepasse"`
}

func (in RegisterInput) validate() []string {
	var errs []string
	if in.Login == "" {
		errs = append(errs, "Le login fourni est vide")
	}
	if in.Email == "" {
		errs = append(errs, "L'email fourni est vide")
	}
	if in.Name == "" {
		errs = append(errs, "Le nom fourni est vide")
	}
	if len(in.Password) < MinPasswordLength {
		errs = append(errs, "Le mot de passe fourni est vide ou trop court")
	}
	return errs
}

// Register creates a local account. Registration is never attributed.
func Register(ctx context.Context, db *gorm.DB, in RegisterInput) (*User, error) {
	in.Login = strings.TrimSpace(in.Login)
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if errs := in.validate(); len(errs) > 0 {
		return nil, &domain.ValidationError{Messages: errs}
	}

	var taken int64
	if err := db.WithContext(ctx).Model(&User{}).
		Where("email = ? OR login = ?", in.Email, in.Login).
		Count(&taken).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	if taken > 0 {
		return nil, &domain.ConflictError{Message: msgAlreadyRegistered}
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}

	user := User{
		Name:         in.Name,
		Login:        in.Login,
		Email:        in.Email,
		Password:     &hashed,
		AuthProvider: ProviderLocal,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &domain.ConflictError{Message: msgAlreadyRegistered}
		}
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &user, nil
}

// Authenticate returns the user owning login when password matches, nil
// otherwise. Unknown logins and wrong passwords are indistinguishable.
func Authenticate(ctx context.Context, db *gorm.DB, login, password string) *User {
	var user User
	if err := db.WithContext(ctx).Where("login = ?", login).First(&user).Error; err != nil {
		return nil
	}
	if !user.HasPassword() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return nil
	}
	return &user
}

// FindByID loads a user or returns a NotFoundError.
func FindByID(ctx context.Context, db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &user, nil
}

// ChangePassword replaces the password of a local account after checking the old one.
func ChangePassword(ctx context.Context, db *gorm.DB, userID uint, oldPassword, newPassword string) error {
	user, err := FindByID(ctx, db, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return &domain.ValidationError{Messages: []string{"Ce compte n'a pas de mot de passe, connectez-vous avec Google"}}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(oldPassword)); err != nil {
		return &domain.ValidationError{Messages: []string{"L'ancien mot de passe est incorrect"}}
	}
	if len(newPassword) < MinPasswordLength {
		return &domain.ValidationError{Messages: []string{"Le mot de passe fourni est vide ou trop court"}}
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return &domain.PersistenceError{Cause: err}
	}
	if err := db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return &domain.PersistenceError{Cause: err}
	}
	return nil
}

// GoogleIdentity is the subset of verified OIDC claims needed to sign a user in.
type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// FindOrCreateGoogle resolves a Google identity to a user: by subject first,
// then by email (linking the subject), else a new account is created.
func FindOrCreateGoogle(ctx context.Context, db *gorm.DB, id GoogleIdentity) (*User, error) {
	if id.Sub == "" || id.Email == "" {
		return nil, &domain.ValidationError{Messages: []string{"google identity is missing sub or email"}}
	}
	db = db.WithContext(ctx)

	var user User
	err := db.Where("google_sub = ?", id.Sub).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.PersistenceError{Cause: err}
	}

	err = db.Where("email = ?", id.Email).First(&user).Error
	if err == nil {
		sub := id.Sub
		if err := db.Model(&user).Update("google_sub", sub).Error; err != nil {
			return nil, &domain.PersistenceError{Cause: err}
		}
		user.GoogleSub = &sub
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.PersistenceError{Cause: err}
	}

	login, err := freeLogin(db, loginFromEmail(id.Email))
	if err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	sub := id.Sub
	user = User{
		Name:         firstNonEmpty(id.Name, login),
		Login:        login,
		Email:        id.Email,
		AuthProvider: ProviderGoogle,
		GoogleSub:    &sub,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, &domain.PersistenceError{Cause: err}
	}
	return &user, nil
}

func loginFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.ToLower(strings.TrimSpace(local))
	if local == "" {
		return "user"
	}
	return local
}

// freeLogin appends a numeric suffix to base until no user holds it.
func freeLogin(db *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var n int64
		if err := db.Model(&User{}).Where("login = ?", candidate).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
