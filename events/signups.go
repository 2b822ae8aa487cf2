package events

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/lankaconnect-client/internal/validation"
	"github.com/jrsteele09/lankaconnect-client/transport"
)

// Item commitments validate the contact email on the server, which is slow.
const commitmentTimeout = 60 * time.Second

// SignUpType is the legacy list model: free-text commitments or a fixed menu.
type SignUpType int

const (
	SignUpOpen SignUpType = iota
	SignUpPredefined
)

var signUpTypeNames = []string{"Open", "Predefined"}

func (t SignUpType) String() string {
	if int(t) >= 0 && int(t) < len(signUpTypeNames) {
		return signUpTypeNames[t]
	}
	return "SignUpType(" + strconv.Itoa(int(t)) + ")"
}

type SignUpItemCategory int

const (
	ItemMandatory SignUpItemCategory = iota
	ItemPreferred
	ItemSuggested
	ItemOpen // Added by an attendee rather than the organizer
)

var signUpItemCategoryNames = []string{"Mandatory", "Preferred", "Suggested", "Open"}

func (c SignUpItemCategory) String() string {
	if int(c) >= 0 && int(c) < len(signUpItemCategoryNames) {
		return signUpItemCategoryNames[c]
	}
	return "SignUpItemCategory(" + strconv.Itoa(int(c)) + ")"
}

func ParseSignUpItemCategory(s string) (SignUpItemCategory, error) {
	v, err := parseEnum(s, signUpItemCategoryNames)
	return SignUpItemCategory(v), err
}

// SignUpCommitment is one user's promise to bring something.
type SignUpCommitment struct {
	ID              string  `json:"id"`
	SignUpItemID    *string `json:"signUpItemId,omitempty"` // nil on legacy lists
	UserID          string  `json:"userId"`
	ItemDescription string  `json:"itemDescription"`
	Quantity        int     `json:"quantity"`
	CommittedAt     string  `json:"committedAt"`
	Notes           *string `json:"notes,omitempty"`
	ContactName     *string `json:"contactName,omitempty"`
	ContactEmail    *string `json:"contactEmail,omitempty"`
	ContactPhone    *string `json:"contactPhone,omitempty"`
}

type SignUpItem struct {
	ID                string             `json:"id"`
	ItemDescription   string             `json:"itemDescription"`
	Quantity          int                `json:"quantity"`
	RemainingQuantity int                `json:"remainingQuantity"`
	ItemCategory      SignUpItemCategory `json:"itemCategory"`
	Notes             *string            `json:"notes,omitempty"`
	CreatedByUserID   *string            `json:"createdByUserId,omitempty"` // Set on open items only
	Commitments       []SignUpCommitment `json:"commitments"`
	IsFullyCommitted  bool               `json:"isFullyCommitted"`
	CommittedQuantity int                `json:"committedQuantity"`
}

// SignUpList holds either legacy commitments or category-based items.
type SignUpList struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	SignUpType  SignUpType `json:"signUpType"`

	PredefinedItems []string           `json:"predefinedItems"`
	Commitments     []SignUpCommitment `json:"commitments"`
	CommitmentCount int                `json:"commitmentCount"`

	HasMandatoryItems bool         `json:"hasMandatoryItems"`
	HasPreferredItems bool         `json:"hasPreferredItems"`
	HasSuggestedItems bool         `json:"hasSuggestedItems"`
	HasOpenItems      bool         `json:"hasOpenItems"`
	Items             []SignUpItem `json:"items"`
}

// Item returns the item with id.
func (l SignUpList) Item(id string) (SignUpItem, bool) {
	for _, item := range l.Items {
		if item.ID == id {
			return item, true
		}
	}
	return SignUpItem{}, false
}

// ==================== Requests ====================

// AddSignUpListRequest creates a legacy list.
type AddSignUpListRequest struct {
	Category        string     `json:"category" validate:"required,max=100"`
	Description     string     `json:"description" validate:"max=500"`
	SignUpType      SignUpType `json:"signUpType"`
	PredefinedItems []string   `json:"predefinedItems,omitempty"`
}

// CreateSignUpListRequest creates a category-based list and its items in one call.
type CreateSignUpListRequest struct {
	Category          string              `json:"category" validate:"required,max=100"`
	Description       string              `json:"description" validate:"max=500"`
	HasMandatoryItems bool                `json:"hasMandatoryItems"`
	HasPreferredItems bool                `json:"hasPreferredItems"`
	HasSuggestedItems bool                `json:"hasSuggestedItems"`
	HasOpenItems      bool                `json:"hasOpenItems"`
	Items             []SignUpItemRequest `json:"items" validate:"dive"`
}

type UpdateSignUpListRequest struct {
	Category          string `json:"category" validate:"required,max=100"`
	Description       string `json:"description" validate:"max=500"`
	HasMandatoryItems bool   `json:"hasMandatoryItems"`
	HasPreferredItems bool   `json:"hasPreferredItems"`
	HasSuggestedItems bool   `json:"hasSuggestedItems"`
	HasOpenItems      bool   `json:"hasOpenItems"`
}

// SignUpItemRequest adds an organizer item, alone or as part of a new list.
type SignUpItemRequest struct {
	ItemDescription string             `json:"itemDescription" validate:"required,max=200"`
	Quantity        int                `json:"quantity" validate:"min=1"`
	ItemCategory    SignUpItemCategory `json:"itemCategory"`
	Notes           *string            `json:"notes,omitempty"`
}

type UpdateSignUpItemRequest struct {
	ItemDescription string  `json:"itemDescription" validate:"required,max=200"`
	Quantity        int     `json:"quantity" validate:"min=1"`
	Notes           *string `json:"notes,omitempty"`
}

// CommitToSignUpRequest commits to a legacy list.
type CommitToSignUpRequest struct {
	UserID          string `json:"userId" validate:"required"`
	ItemDescription string `json:"itemDescription" validate:"required,max=200"`
	Quantity        int    `json:"quantity" validate:"min=1"`
}

type CancelCommitmentRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// CommitToSignUpItemRequest sets the user's quantity for one item. Committing
// again replaces the previous quantity.
type CommitToSignUpItemRequest struct {
	UserID       string `json:"userId" validate:"required"`
	Quantity     int    `json:"quantity" validate:"min=1"`
	Notes        string `json:"notes,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// OpenSignUpItemRequest adds or edits an item an attendee brings of their own choosing.
type OpenSignUpItemRequest struct {
	UserID       string `json:"userId" validate:"required"`
	ItemName     string `json:"itemName" validate:"required,max=200"`
	Quantity     int    `json:"quantity" validate:"min=1"`
	Notes        string `json:"notes,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// ==================== Sign-up lists ====================

func signUpPath(eventID, signUpID string, rest ...string) string {
	return eventPath(eventID, append([]string{"signups", url.PathEscape(signUpID)}, rest...)...)
}

func (r *Repository) GetEventSignUpLists(ctx context.Context, eventID string) ([]SignUpList, error) {
	var out []SignUpList
	err := r.api.Get(ctx, eventPath(eventID, "signups"), &out)
	return out, err
}

func (r *Repository) AddSignUpList(ctx context.Context, eventID string, req AddSignUpListRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Post(ctx, eventPath(eventID, "signups"), req, nil)
}

// CreateSignUpList returns the new list's ID.
func (r *Repository) CreateSignUpList(ctx context.Context, eventID string, req CreateSignUpListRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	return r.postForID(ctx, eventPath(eventID, "signups"), req)
}

func (r *Repository) UpdateSignUpList(ctx context.Context, eventID, signUpID string, req UpdateSignUpListRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Put(ctx, signUpPath(eventID, signUpID), req, nil)
}

func (r *Repository) RemoveSignUpList(ctx context.Context, eventID, signUpID string) error {
	return r.api.Delete(ctx, signUpPath(eventID, signUpID), nil)
}

func (r *Repository) CommitToSignUp(ctx context.Context, eventID, signUpID string, req CommitToSignUpRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Post(ctx, signUpPath(eventID, signUpID, "commit"), req, nil)
}

func (r *Repository) CancelCommitment(ctx context.Context, eventID, signUpID string, req CancelCommitmentRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Delete(ctx, signUpPath(eventID, signUpID, "commit"), nil, transport.WithBody(req))
}

// ==================== Sign-up items ====================

// AddSignUpItem returns the new item's ID.
func (r *Repository) AddSignUpItem(ctx context.Context, eventID, signUpID string, req SignUpItemRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	return r.postForID(ctx, signUpPath(eventID, signUpID, "items"), req)
}

func (r *Repository) UpdateSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req UpdateSignUpItemRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Put(ctx, signUpPath(eventID, signUpID, "items", url.PathEscape(itemID)), req, nil)
}

func (r *Repository) RemoveSignUpItem(ctx context.Context, eventID, signUpID, itemID string) error {
	return r.api.Delete(ctx, signUpPath(eventID, signUpID, "items", url.PathEscape(itemID)), nil)
}

func (r *Repository) CommitToSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req CommitToSignUpItemRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	path := signUpPath(eventID, signUpID, "items", url.PathEscape(itemID), "commit")
	return r.api.Post(ctx, path, req, nil, transport.WithTimeout(commitmentTimeout))
}

// ==================== Open items ====================

// AddOpenSignUpItem returns the new item's ID. Only lists with open items enabled accept it.
func (r *Repository) AddOpenSignUpItem(ctx context.Context, eventID, signUpID string, req OpenSignUpItemRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	return r.postForID(ctx, signUpPath(eventID, signUpID, "open-items"), req)
}

// UpdateOpenSignUpItem is allowed only for the user who added the item.
func (r *Repository) UpdateOpenSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req OpenSignUpItemRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return r.api.Put(ctx, signUpPath(eventID, signUpID, "open-items", url.PathEscape(itemID)), req, nil)
}

func (r *Repository) CancelOpenSignUpItem(ctx context.Context, eventID, signUpID, itemID string) error {
	return r.api.Delete(ctx, signUpPath(eventID, signUpID, "open-items", url.PathEscape(itemID)), nil)
}

func (r *Repository) postForID(ctx context.Context, path string, body any) (string, error) {
	var raw json.RawMessage
	if err := r.api.Post(ctx, path, body, &raw); err != nil {
		return "", err
	}
	return extractID(raw)
}
