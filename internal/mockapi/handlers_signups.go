package mockapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
)

// signUpListBody accepts both the legacy and the category-based create payloads.
type signUpListBody struct {
	Category          string                     `json:"category"`
	Description       string                     `json:"description"`
	SignUpType        events.SignUpType          `json:"signUpType"`
	PredefinedItems   []string                   `json:"predefinedItems"`
	HasMandatoryItems bool                       `json:"hasMandatoryItems"`
	HasPreferredItems bool                       `json:"hasPreferredItems"`
	HasSuggestedItems bool                       `json:"hasSuggestedItems"`
	HasOpenItems      bool                       `json:"hasOpenItems"`
	Items             []events.SignUpItemRequest `json:"items"`
}

// AddSignUpList seeds a list on eventID, filling in IDs and counts.
func (s *Server) AddSignUpList(eventID string, l events.SignUpList) events.SignUpList {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.PredefinedItems = nonNil(l.PredefinedItems)
	l.Commitments = nonNil(l.Commitments)
	l.CommitmentCount = len(l.Commitments)
	l.Items = slices.Clone(nonNil(l.Items))
	for i := range l.Items {
		if l.Items[i].ID == "" {
			l.Items[i].ID = uuid.NewString()
		}
		l.Items[i].Commitments = nonNil(l.Items[i].Commitments)
		recountItem(&l.Items[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := l
	s.signUps[eventID] = append(s.signUps[eventID], &stored)
	return l
}

// SignUpLists returns deep copies of the lists stored for eventID.
func (s *Server) SignUpLists(eventID string) []events.SignUpList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.signUpListsLocked(eventID)
	for i := range out {
		out[i].PredefinedItems = slices.Clone(out[i].PredefinedItems)
		out[i].Commitments = slices.Clone(out[i].Commitments)
		out[i].Items = slices.Clone(out[i].Items)
		for j := range out[i].Items {
			out[i].Items[j].Commitments = slices.Clone(out[i].Items[j].Commitments)
		}
	}
	return out
}

func (s *Server) signUpListsLocked(eventID string) []events.SignUpList {
	out := make([]events.SignUpList, 0, len(s.signUps[eventID]))
	for _, l := range s.signUps[eventID] {
		out = append(out, *l)
	}
	return out
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func recountItem(item *events.SignUpItem) {
	committed := 0
	for _, c := range item.Commitments {
		committed += c.Quantity
	}
	item.CommittedQuantity = committed
	item.RemainingQuantity = max(item.Quantity-committed, 0)
	item.IsFullyCommitted = committed >= item.Quantity
}

// signUpListLocked loads the path's list, writing a 404 when the event or list is missing.
func (s *Server) signUpListLocked(w http.ResponseWriter, r *http.Request) *events.SignUpList {
	if s.events[r.PathValue("id")] == nil {
		writeError(w, http.StatusNotFound, "Event not found.")
		return nil
	}
	for _, l := range s.signUps[r.PathValue("id")] {
		if l.ID == r.PathValue("signupId") {
			return l
		}
	}
	writeError(w, http.StatusNotFound, "Sign-up list not found.")
	return nil
}

// ownedSignUpListLocked is signUpListLocked for organizer-only routes.
func (s *Server) ownedSignUpListLocked(w http.ResponseWriter, r *http.Request) *events.SignUpList {
	if s.ownedEventLocked(w, r) == nil {
		return nil
	}
	return s.signUpListLocked(w, r)
}

func signUpItemIndex(w http.ResponseWriter, l *events.SignUpList, id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	writeError(w, http.StatusNotFound, "Sign-up item not found.")
	return -1
}

// callerMatches rejects bodies that name a user other than the signed-in one.
func callerMatches(w http.ResponseWriter, r *http.Request, userID string) bool {
	if userID != claimsFrom(r).UserID {
		writeError(w, http.StatusForbidden, "Cannot act on behalf of another user.")
		return false
	}
	return true
}

// dropCommitmentsLocked removes every commitment userID holds on eventID's lists.
func (s *Server) dropCommitmentsLocked(eventID, userID string) {
	mine := func(c events.SignUpCommitment) bool { return c.UserID == userID }
	for _, l := range s.signUps[eventID] {
		l.Commitments = slices.DeleteFunc(l.Commitments, mine)
		l.CommitmentCount = len(l.Commitments)
		for i := range l.Items {
			l.Items[i].Commitments = slices.DeleteFunc(l.Items[i].Commitments, mine)
			recountItem(&l.Items[i])
		}
	}
}

// ==================== Lists ====================

func (s *Server) ListSignUpsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.events[r.PathValue("id")] == nil {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		writeJSON(w, http.StatusOK, s.signUpListsLocked(r.PathValue("id")))
	}
}

// CreateSignUpListHandler answers with the new list's ID.
func (s *Server) CreateSignUpListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body signUpListBody
		if !readJSON(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.Category) == "" {
			writeValidation(w, "Category", "Category is required.")
			return
		}
		l := &events.SignUpList{
			ID:                uuid.NewString(),
			Category:          body.Category,
			Description:       body.Description,
			SignUpType:        body.SignUpType,
			PredefinedItems:   nonNil(body.PredefinedItems),
			Commitments:       []events.SignUpCommitment{},
			HasMandatoryItems: body.HasMandatoryItems,
			HasPreferredItems: body.HasPreferredItems,
			HasSuggestedItems: body.HasSuggestedItems,
			HasOpenItems:      body.HasOpenItems,
			Items:             []events.SignUpItem{},
		}
		for _, req := range body.Items {
			if req.Quantity <= 0 {
				writeValidation(w, "Quantity", "Quantity must be greater than 0.")
				return
			}
			l.Items = append(l.Items, newSignUpItem(req))
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		s.signUps[e.ID] = append(s.signUps[e.ID], l)
		writeJSON(w, http.StatusOK, l.ID)
	}
}

func newSignUpItem(req events.SignUpItemRequest) events.SignUpItem {
	item := events.SignUpItem{
		ID:              uuid.NewString(),
		ItemDescription: req.ItemDescription,
		Quantity:        req.Quantity,
		ItemCategory:    req.ItemCategory,
		Notes:           req.Notes,
		Commitments:     []events.SignUpCommitment{},
	}
	recountItem(&item)
	return item
}

func (s *Server) UpdateSignUpListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.UpdateSignUpListRequest
		if !readJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Category) == "" {
			writeValidation(w, "Category", "Category is required.")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.ownedSignUpListLocked(w, r)
		if l == nil {
			return
		}
		l.Category = req.Category
		l.Description = req.Description
		l.HasMandatoryItems = req.HasMandatoryItems
		l.HasPreferredItems = req.HasPreferredItems
		l.HasSuggestedItems = req.HasSuggestedItems
		l.HasOpenItems = req.HasOpenItems
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RemoveSignUpListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.ownedSignUpListLocked(w, r)
		if l == nil {
			return
		}
		eventID := r.PathValue("id")
		s.signUps[eventID] = slices.DeleteFunc(s.signUps[eventID], func(x *events.SignUpList) bool { return x == l })
		w.WriteHeader(http.StatusNoContent)
	}
}

// ==================== Legacy commitments ====================

func (s *Server) CommitToSignUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.CommitToSignUpRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.Quantity <= 0 {
			writeValidation(w, "Quantity", "Quantity must be greater than 0.")
			return
		}
		if !callerMatches(w, r, req.UserID) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.signUpListLocked(w, r)
		if l == nil {
			return
		}
		if l.SignUpType == events.SignUpPredefined && !slices.Contains(l.PredefinedItems, req.ItemDescription) {
			writeValidation(w, "ItemDescription", "Item is not on this sign-up list.")
			return
		}
		l.Commitments = append(l.Commitments, events.SignUpCommitment{
			ID:              uuid.NewString(),
			UserID:          req.UserID,
			ItemDescription: req.ItemDescription,
			Quantity:        req.Quantity,
			CommittedAt:     s.now().UTC().Format(time.RFC3339),
		})
		l.CommitmentCount = len(l.Commitments)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CancelCommitmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.CancelCommitmentRequest
		if !readJSON(w, r, &req) {
			return
		}
		if !callerMatches(w, r, req.UserID) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.signUpListLocked(w, r)
		if l == nil {
			return
		}
		before := len(l.Commitments)
		l.Commitments = slices.DeleteFunc(l.Commitments, func(c events.SignUpCommitment) bool { return c.UserID == req.UserID })
		if len(l.Commitments) == before {
			writeError(w, http.StatusNotFound, "No commitment to cancel.")
			return
		}
		l.CommitmentCount = len(l.Commitments)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ==================== Items ====================

func (s *Server) AddSignUpItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.SignUpItemRequest
		if !readJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ItemDescription) == "" {
			writeValidation(w, "ItemDescription", "Item description is required.")
			return
		}
		if req.Quantity <= 0 {
			writeValidation(w, "Quantity", "Quantity must be greater than 0.")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.ownedSignUpListLocked(w, r)
		if l == nil {
			return
		}
		item := newSignUpItem(req)
		l.Items = append(l.Items, item)
		writeJSON(w, http.StatusOK, item.ID)
	}
}

func (s *Server) UpdateSignUpItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.UpdateSignUpItemRequest
		if !readJSON(w, r, &req) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.ownedSignUpListLocked(w, r)
		if l == nil {
			return
		}
		i := signUpItemIndex(w, l, r.PathValue("itemId"))
		if i < 0 {
			return
		}
		item := &l.Items[i]
		if req.Quantity < item.CommittedQuantity {
			writeValidation(w, "Quantity", "Quantity cannot be less than the quantity already committed.")
			return
		}
		item.ItemDescription = req.ItemDescription
		item.Quantity = req.Quantity
		item.Notes = req.Notes
		recountItem(item)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RemoveSignUpItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.ownedSignUpListLocked(w, r)
		if l == nil {
			return
		}
		i := signUpItemIndex(w, l, r.PathValue("itemId"))
		if i < 0 {
			return
		}
		l.Items = slices.Delete(l.Items, i, i+1)
		w.WriteHeader(http.StatusNoContent)
	}
}

// CommitToSignUpItemHandler replaces the caller's earlier commitment to the item.
func (s *Server) CommitToSignUpItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.CommitToSignUpItemRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.Quantity <= 0 {
			writeValidation(w, "Quantity", "Quantity must be greater than 0.")
			return
		}
		if !callerMatches(w, r, req.UserID) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.signUpListLocked(w, r)
		if l == nil {
			return
		}
		i := signUpItemIndex(w, l, r.PathValue("itemId"))
		if i < 0 {
			return
		}
		item := &l.Items[i]
		others := slices.DeleteFunc(slices.Clone(item.Commitments), func(c events.SignUpCommitment) bool { return c.UserID == req.UserID })
		taken := 0
		for _, c := range others {
			taken += c.Quantity
		}
		if taken+req.Quantity > item.Quantity {
			writeError(w, http.StatusBadRequest, "Not enough of this item left to commit.")
			return
		}
		itemID := item.ID
		item.Commitments = append(others, events.SignUpCommitment{
			ID:              uuid.NewString(),
			SignUpItemID:    &itemID,
			UserID:          req.UserID,
			ItemDescription: item.ItemDescription,
			Quantity:        req.Quantity,
			CommittedAt:     s.now().UTC().Format(time.RFC3339),
			Notes:           optional(req.Notes),
			ContactName:     optional(req.ContactName),
			ContactEmail:    optional(req.ContactEmail),
			ContactPhone:    optional(req.ContactPhone),
		})
		recountItem(item)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ==================== Open items ====================

func openItemCommitment(itemID string, req events.OpenSignUpItemRequest, at string) events.SignUpCommitment {
	return events.SignUpCommitment{
		ID:              uuid.NewString(),
		SignUpItemID:    &itemID,
		UserID:          req.UserID,
		ItemDescription: req.ItemName,
		Quantity:        req.Quantity,
		CommittedAt:     at,
		Notes:           optional(req.Notes),
		ContactName:     optional(req.ContactName),
		ContactEmail:    optional(req.ContactEmail),
		ContactPhone:    optional(req.ContactPhone),
	}
}

func readOpenItem(w http.ResponseWriter, r *http.Request) (events.OpenSignUpItemRequest, bool) {
	var req events.OpenSignUpItemRequest
	if !readJSON(w, r, &req) {
		return req, false
	}
	if strings.TrimSpace(req.ItemName) == "" {
		writeValidation(w, "ItemName", "Item name is required.")
		return req, false
	}
	if req.Quantity <= 0 {
		writeValidation(w, "Quantity", "Quantity must be greater than 0.")
		return req, false
	}
	return req, callerMatches(w, r, req.UserID)
}

// AddOpenItemHandler adds the caller's own item, already fully committed by them.
func (s *Server) AddOpenItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readOpenItem(w, r)
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l := s.signUpListLocked(w, r)
		if l == nil {
			return
		}
		if !l.HasOpenItems {
			writeError(w, http.StatusBadRequest, "This sign-up list does not accept open items.")
			return
		}
		item := events.SignUpItem{
			ID:              uuid.NewString(),
			ItemDescription: req.ItemName,
			Quantity:        req.Quantity,
			ItemCategory:    events.ItemOpen,
			Notes:           optional(req.Notes),
			CreatedByUserID: optional(req.UserID),
		}
		item.Commitments = []events.SignUpCommitment{openItemCommitment(item.ID, req, s.now().UTC().Format(time.RFC3339))}
		recountItem(&item)
		l.Items = append(l.Items, item)
		writeJSON(w, http.StatusOK, item.ID)
	}
}

// openItemLocked finds the path's open item and checks the caller added it.
func (s *Server) openItemLocked(w http.ResponseWriter, r *http.Request) (*events.SignUpList, int) {
	l := s.signUpListLocked(w, r)
	if l == nil {
		return nil, -1
	}
	i := signUpItemIndex(w, l, r.PathValue("itemId"))
	if i < 0 {
		return nil, -1
	}
	item := l.Items[i]
	if item.ItemCategory != events.ItemOpen || item.CreatedByUserID == nil || *item.CreatedByUserID != claimsFrom(r).UserID {
		writeError(w, http.StatusForbidden, "Only the user who added this item can change it.")
		return nil, -1
	}
	return l, i
}

func (s *Server) UpdateOpenItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readOpenItem(w, r)
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		l, i := s.openItemLocked(w, r)
		if l == nil {
			return
		}
		item := &l.Items[i]
		item.ItemDescription = req.ItemName
		item.Quantity = req.Quantity
		item.Notes = optional(req.Notes)
		item.Commitments = []events.SignUpCommitment{openItemCommitment(item.ID, req, s.now().UTC().Format(time.RFC3339))}
		recountItem(item)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CancelOpenItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		l, i := s.openItemLocked(w, r)
		if l == nil {
			return
		}
		l.Items = slices.Delete(l.Items, i, i+1)
		w.WriteHeader(http.StatusNoContent)
	}
}
