package users

import (
	"context"
	"net/url"

	"github.com/jrsteele09/lankaconnect-client/internal/validation"
	"github.com/jrsteele09/lankaconnect-client/transport"
)

// UpgradeRequest asks for a role change that an admin approves later.
type UpgradeRequest struct {
	TargetRole Role   `json:"targetRole" validate:"required,oneof=BusinessOwner EventOrganizer EventOrganizerAndBusinessOwner"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

type preferredMetrosRequest struct {
	MetroAreaIDs []string `json:"metroAreaIds" validate:"max=20"`
}

// Repository covers the /users endpoints the client needs.
type Repository struct {
	api transport.API
}

func NewRepository(api transport.API) *Repository {
	return &Repository{api: api}
}

// RequestUpgrade validates locally and sends nothing when the request is invalid.
func (r *Repository) RequestUpgrade(ctx context.Context, req UpgradeRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Post(ctx, "/users/me/request-upgrade", req, nil)
}

func (r *Repository) CancelUpgrade(ctx context.Context) error {
	return r.api.Post(ctx, "/users/me/cancel-upgrade", nil, nil)
}

func (r *Repository) GetUser(ctx context.Context, userID string) (*User, error) {
	var out User
	if err := r.api.Get(ctx, "/users/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPreferredMetroAreas returns the metro area IDs the user follows.
func (r *Repository) GetPreferredMetroAreas(ctx context.Context, userID string) ([]string, error) {
	var out []string
	err := r.api.Get(ctx, "/users/"+url.PathEscape(userID)+"/preferred-metro-areas", &out)
	return out, err
}

// UpdatePreferredMetroAreas replaces the user's metro areas, at most 20. An empty
// list clears them.
func (r *Repository) UpdatePreferredMetroAreas(ctx context.Context, userID string, metroAreaIDs []string) error {
	if metroAreaIDs == nil {
		metroAreaIDs = []string{}
	}
	req := preferredMetrosRequest{MetroAreaIDs: metroAreaIDs}
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Put(ctx, "/users/"+url.PathEscape(userID)+"/preferred-metro-areas", req, nil)
}
