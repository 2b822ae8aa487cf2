package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/querycache"
)

// tempIDPrefix marks commitments shown before the server has assigned an ID.
const tempIDPrefix = "temp-"

func (c *Client) SignUpLists(ctx context.Context, eventID string) ([]events.SignUpList, error) {
	return querycache.Fetch(ctx, c.cache, SignUpListKey(eventID), SignUpsStaleTime, func(ctx context.Context) ([]events.SignUpList, error) {
		return c.repo.GetEventSignUpLists(ctx, eventID)
	})
}

// mapList replaces the list with signUpID by fn(list). The other lists are shared
// with the previous value, which is never modified.
func mapList(signUpID string, fn func(events.SignUpList) events.SignUpList) func([]events.SignUpList) []events.SignUpList {
	return func(lists []events.SignUpList) []events.SignUpList {
		out := make([]events.SignUpList, len(lists))
		for i, l := range lists {
			if l.ID == signUpID {
				l = fn(l)
			}
			out[i] = l
		}
		return out
	}
}

// signUpWrite runs a write that refreshes the event's sign-up lists and, when
// alsoDetail is set, the event itself.
func (c *Client) signUpWrite(eventID string, apply func([]events.SignUpList) []events.SignUpList, call func() error, alsoDetail bool) error {
	var invalidate []querycache.Key
	if alsoDetail {
		invalidate = append(invalidate, DetailKey(eventID))
	}
	return mutate(c, SignUpListKey(eventID), apply, call, invalidate...)
}

// ==================== Lists ====================

func (c *Client) AddSignUpList(ctx context.Context, eventID string, req events.AddSignUpListRequest) error {
	return c.signUpWrite(eventID, nil, func() error { return c.repo.AddSignUpList(ctx, eventID, req) }, true)
}

// CreateSignUpList returns the new list's ID.
func (c *Client) CreateSignUpList(ctx context.Context, eventID string, req events.CreateSignUpListRequest) (string, error) {
	var id string
	err := c.signUpWrite(eventID, nil, func() (err error) {
		id, err = c.repo.CreateSignUpList(ctx, eventID, req)
		return err
	}, true)
	return id, err
}

func (c *Client) UpdateSignUpList(ctx context.Context, eventID, signUpID string, req events.UpdateSignUpListRequest) error {
	return c.signUpWrite(eventID, nil, func() error { return c.repo.UpdateSignUpList(ctx, eventID, signUpID, req) }, true)
}

// RemoveSignUpList hides the list at once. A failed delete puts it back.
func (c *Client) RemoveSignUpList(ctx context.Context, eventID, signUpID string) error {
	return c.signUpWrite(eventID,
		func(lists []events.SignUpList) []events.SignUpList {
			out := make([]events.SignUpList, 0, len(lists))
			for _, l := range lists {
				if l.ID != signUpID {
					out = append(out, l)
				}
			}
			return out
		},
		func() error { return c.repo.RemoveSignUpList(ctx, eventID, signUpID) }, true)
}

// ==================== Commitments ====================

// CommitToSignUp shows the commitment under a temporary ID until the list is refetched.
func (c *Client) CommitToSignUp(ctx context.Context, eventID, signUpID string, req events.CommitToSignUpRequest) error {
	return c.signUpWrite(eventID,
		mapList(signUpID, func(l events.SignUpList) events.SignUpList {
			commitment := events.SignUpCommitment{
				ID:              tempIDPrefix + uuid.NewString(),
				UserID:          req.UserID,
				ItemDescription: req.ItemDescription,
				Quantity:        req.Quantity,
				CommittedAt:     time.Now().UTC().Format(time.RFC3339),
			}
			l.Commitments = append(append(make([]events.SignUpCommitment, 0, len(l.Commitments)+1), l.Commitments...), commitment)
			l.CommitmentCount++
			return l
		}),
		func() error { return c.repo.CommitToSignUp(ctx, eventID, signUpID, req) }, false)
}

func (c *Client) CancelCommitment(ctx context.Context, eventID, signUpID string, req events.CancelCommitmentRequest) error {
	return c.signUpWrite(eventID,
		mapList(signUpID, func(l events.SignUpList) events.SignUpList {
			kept := make([]events.SignUpCommitment, 0, len(l.Commitments))
			for _, cm := range l.Commitments {
				if cm.UserID != req.UserID {
					kept = append(kept, cm)
				}
			}
			l.Commitments = kept
			l.CommitmentCount = max(l.CommitmentCount-1, 0)
			return l
		}),
		func() error { return c.repo.CancelCommitment(ctx, eventID, signUpID, req) }, false)
}

// ==================== Items ====================

// AddSignUpItem returns the new item's ID.
func (c *Client) AddSignUpItem(ctx context.Context, eventID, signUpID string, req events.SignUpItemRequest) (string, error) {
	var id string
	err := c.signUpWrite(eventID, nil, func() (err error) {
		id, err = c.repo.AddSignUpItem(ctx, eventID, signUpID, req)
		return err
	}, false)
	return id, err
}

func (c *Client) UpdateSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req events.UpdateSignUpItemRequest) error {
	return c.signUpWrite(eventID, nil, func() error { return c.repo.UpdateSignUpItem(ctx, eventID, signUpID, itemID, req) }, false)
}

func (c *Client) RemoveSignUpItem(ctx context.Context, eventID, signUpID, itemID string) error {
	return c.signUpWrite(eventID,
		mapList(signUpID, func(l events.SignUpList) events.SignUpList {
			kept := make([]events.SignUpItem, 0, len(l.Items))
			for _, item := range l.Items {
				if item.ID != itemID {
					kept = append(kept, item)
				}
			}
			l.Items = kept
			return l
		}),
		func() error { return c.repo.RemoveSignUpItem(ctx, eventID, signUpID, itemID) }, false)
}

func (c *Client) CommitToSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req events.CommitToSignUpItemRequest) error {
	return c.signUpWrite(eventID, nil, func() error { return c.repo.CommitToSignUpItem(ctx, eventID, signUpID, itemID, req) }, false)
}

// AddOpenSignUpItem returns the new item's ID.
func (c *Client) AddOpenSignUpItem(ctx context.Context, eventID, signUpID string, req events.OpenSignUpItemRequest) (string, error) {
	var id string
	err := c.signUpWrite(eventID, nil, func() (err error) {
		id, err = c.repo.AddOpenSignUpItem(ctx, eventID, signUpID, req)
		return err
	}, false)
	return id, err
}

func (c *Client) UpdateOpenSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req events.OpenSignUpItemRequest) error {
	return c.signUpWrite(eventID, nil, func() error { return c.repo.UpdateOpenSignUpItem(ctx, eventID, signUpID, itemID, req) }, false)
}

func (c *Client) CancelOpenSignUpItem(ctx context.Context, eventID, signUpID, itemID string) error {
	return c.signUpWrite(eventID, nil, func() error { return c.repo.CancelOpenSignUpItem(ctx, eventID, signUpID, itemID) }, false)
}
