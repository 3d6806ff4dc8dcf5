// Package adapters bridges domain services into the admin surface's response
// DTOs so the admin handler never touches domain models directly.
package adapters

import (
	"context"

	"quire/internal/admin"
	profileService "quire/internal/profile/service"
)

// ProfileAdapter exposes the profile service as admin user listings.
type ProfileAdapter struct {
	profiles *profileService.Service
}

// NewProfileAdapter creates a ProfileAdapter.
func NewProfileAdapter(profiles *profileService.Service) *ProfileAdapter {
	return &ProfileAdapter{profiles: profiles}
}

// ListUsers returns every profile as an admin DTO.
func (a *ProfileAdapter) ListUsers(ctx context.Context) (*admin.UsersListResponse, error) {
	profiles, err := a.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]*admin.UserInfoResponse, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, &admin.UserInfoResponse{
			ID:              p.ID.String(),
			Name:            p.Name,
			Email:           p.Email,
			Institution:     p.Institution,
			Role:            p.Role.String(),
			ProfileComplete: p.ProfileComplete,
			WantsToBeEditor: p.WantsToBeEditor,
			UpdatedAt:       p.UpdatedAt,
		})
	}
	return &admin.UsersListResponse{Users: users, Total: len(users)}, nil
}
