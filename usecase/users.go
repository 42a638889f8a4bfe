package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"main/model"
	"main/repository"
	"main/services"
	"main/upload"
	"main/utils"

	"github.com/google/uuid"
)

// UsersRepository is the persistence surface UserService depends on.
type UsersRepository interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, updates *model.User) (*model.User, error)
	UpdateProfilePicture(ctx context.Context, userID, filename string) error
}

// UserService handles accounts and profile pictures. Profile pictures live in
// their own folder and are stored on the user as a bare filename, unlike note
// images which keep their public path.
type UserService struct {
	Repo   UsersRepository
	Intake *upload.Intake
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,password"`
	ConfirmPassword string
	Picture         *multipart.FileHeader
}

// ProfileUpdateInput carries the editable profile fields. Empty fields are
// left unchanged.
type ProfileUpdateInput struct {
	FirstName string
	LastName  string
	Email     string
}

// Register validates the input, stores the optional profile picture and
// creates the account. A duplicate email after the picture landed on disk
// deletes the picture before returning.
func (svc *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := utils.Validate.Struct(in); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, utils.ValidationError("invalid registration data: " + err.Error())
	}
	if in.Password != in.ConfirmPassword {
		utils.TrackAuthAttempt("failure", "register")
		return nil, utils.ValidationError("passwords do not match")
	}

	var files []*multipart.FileHeader
	if in.Picture != nil {
		files = append(files, in.Picture)
	}

	saved, err := svc.Intake.SaveAll(files)
	if err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, err
	}

	hashed, err := services.HashPassword(in.Password)
	if err != nil {
		svc.Intake.Discard(saved)
		utils.TrackAuthAttempt("failure", "register")
		return nil, utils.InternalServerError(err)
	}

	now := time.Now()
	user := &model.User{
		UserID:    uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(saved) > 0 {
		user.Profile = saved[0].Name
	}

	if err := svc.Repo.AddUser(ctx, user); err != nil {
		svc.Intake.Discard(saved)
		utils.TrackAuthAttempt("failure", "register")
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, utils.ConflictError("email already registered")
		}
		return nil, utils.PersistenceError(err)
	}

	utils.TrackAuthAttempt("success", "register")
	return user, nil
}

// Authenticate verifies the credentials and returns the account. The failure
// message never reveals whether the email or the password was wrong.
func (svc *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		utils.TrackAuthAttempt("failure", "login")
		return nil, utils.ValidationError("email and password are required")
	}

	user, err := svc.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, utils.ValidationError("invalid email or password")
	}

	ok, err := services.VerifyPassword(user.Password, password)
	if err != nil || !ok {
		utils.TrackAuthAttempt("failure", "login")
		return nil, utils.ValidationError("invalid email or password")
	}

	utils.TrackAuthAttempt("success", "login")
	return user, nil
}

// GetProfile fetches the account for the acting user.
func (svc *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := svc.Repo.FindUser(ctx, userID)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	if user == nil {
		return nil, utils.NotFoundError("user not found")
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields and returns the updated account.
func (svc *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) (*model.User, error) {
	updates := &model.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if updates.FirstName == "" && updates.LastName == "" && updates.Email == "" {
		return nil, utils.ValidationError("no fields to update")
	}
	if updates.Email != "" {
		if err := utils.Validate.Var(updates.Email, "email"); err != nil {
			return nil, utils.ValidationError("invalid email address")
		}
	}

	user, err := svc.Repo.UpdateProfile(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, utils.ConflictError("email already registered")
		}
		return nil, utils.PersistenceError(err)
	}
	if user == nil {
		return nil, utils.NotFoundError("user not found")
	}
	return user, nil
}

// ChangeProfilePicture stores the new picture, deletes the old one and saves
// the new filename. The old blob is removed before the save; a save failure
// cleans up the new blob but cannot bring the old one back.
func (svc *UserService) ChangeProfilePicture(ctx context.Context, userID string, fh *multipart.FileHeader) (*model.User, error) {
	if fh == nil {
		return nil, utils.ValidationError("profile picture is required")
	}

	user, err := svc.Repo.FindUser(ctx, userID)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	if user == nil {
		return nil, utils.NotFoundError("user not found")
	}

	saved, err := svc.Intake.SaveOne(fh)
	if err != nil {
		return nil, err
	}

	if user.Profile != "" {
		svc.Intake.DiscardRefs([]string{user.Profile})
	}

	if err := svc.Repo.UpdateProfilePicture(ctx, userID, saved.Name); err != nil {
		svc.Intake.Discard([]upload.File{saved})
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, utils.NotFoundError("user not found")
		}
		return nil, utils.PersistenceError(err)
	}

	user.Profile = saved.Name
	user.UpdatedAt = time.Now()
	return user, nil
}
