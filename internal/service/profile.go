package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
	"github.com/pageza/recipebook/backend/internal/validation"
)

// ProfileUpdate is an edit of the signed-in user's own profile. Nil fields
// are left alone.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	Avatar       *Upload
	RemoveAvatar bool
}

// ProfileService handles user profile operations
type ProfileService struct {
	auth    *AuthService
	recipes *RecipeService
	media   MediaStore
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(auth *AuthService, recipes *RecipeService, media MediaStore) *ProfileService {
	return &ProfileService{
		auth:    auth,
		recipes: recipes,
		media:   media,
	}
}

// GetOwnProfile returns the user with all of their recipes, newest first.
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*types.OwnProfile, error) {
	user, err := s.auth.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.ListByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return &types.OwnProfile{User: user, Email: user.Email, Phone: user.Phone, Recipes: recipes}, nil
}

// GetPublicProfile returns the user with their published recipes only.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*types.PublicProfile, error) {
	user, err := s.auth.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.ListByOwner(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return &types.PublicProfile{User: user, Recipes: recipes}, nil
}

// UpdateProfile applies an edit to the user's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	user, err := s.auth.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	db := s.auth.db.WithContext(ctx)

	errs := validation.FieldErrors{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		switch {
		case name == "":
			errs.Add("name", "This field is required.")
		case len(name) > 150:
			errs.Add("name", "Ensure this has at most 150 characters.")
		default:
			user.Name = name
		}
	}
	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		switch {
		case phone == "":
			user.Phone = nil
		case len(phone) > 20:
			errs.Add("phone", "Ensure this has at most 20 characters.")
		default:
			taken, err := s.auth.exists(db.Where("id <> ?", user.ID), "phone = ?", phone)
			if err != nil {
				return nil, err
			}
			if taken {
				errs.Add("phone", "A user with that phone number already exists.")
			}
			user.Phone = &phone
		}
	}
	checkUpload(upd.Avatar, maxImageSize, "avatar", errs)
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	oldAvatar := user.Avatar
	var stored []string
	switch {
	case upd.Avatar != nil:
		if s.media == nil {
			return nil, fmt.Errorf("media storage is not configured")
		}
		url, err := storeUpload(ctx, s.media, upd.Avatar, FolderAvatars, kindImage, "avatar")
		if err != nil {
			return nil, err
		}
		stored = append(stored, url)
		user.Avatar = url
	case upd.RemoveAvatar:
		user.Avatar = ""
	}

	if err := db.Save(user).Error; err != nil {
		discardMedia(context.WithoutCancel(ctx), s.media, stored)
		if isDuplicateKey(err) {
			return nil, newValidationError("phone", "A user with that phone number already exists.")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if oldAvatar != "" && oldAvatar != user.Avatar {
		discardMedia(context.WithoutCancel(ctx), s.media, []string{oldAvatar})
	}
	return user, nil
}
