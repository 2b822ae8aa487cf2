// Package events is the typed facade over the /events endpoints. It holds no
// state and never handles errors, classified errors from the transport pass
// straight through.
package events

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/transport"
)

const basePath = "/events"

// Video uploads are large, the default timeout is too short for them.
const videoTimeout = 5 * time.Minute

type Repository struct {
	api transport.API
}

func NewRepository(api transport.API) *Repository {
	return &Repository{api: api}
}

func eventPath(id string, rest ...string) string {
	parts := append([]string{basePath, url.PathEscape(id)}, rest...)
	return strings.Join(parts, "/")
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// ==================== Public queries ====================

func (r *Repository) GetEvents(ctx context.Context, filters GetEventsRequest) ([]Event, error) {
	var out []Event
	err := r.api.Get(ctx, withQuery(basePath, filters.Query()), &out)
	return out, err
}

func (r *Repository) GetEventByID(ctx context.Context, id string) (*Event, error) {
	var out Event
	if err := r.api.Get(ctx, eventPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) SearchEvents(ctx context.Context, req SearchEventsRequest) (*PagedResult[Event], error) {
	var out PagedResult[Event]
	if err := r.api.Get(ctx, withQuery(basePath+"/search", req.Query()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) GetNearbyEvents(ctx context.Context, req GetNearbyEventsRequest) ([]Event, error) {
	var out []Event
	err := r.api.Get(ctx, withQuery(basePath+"/nearby", req.Query()), &out)
	return out, err
}

// GetFeaturedEvents returns a handful of events ranked by location relevance.
func (r *Repository) GetFeaturedEvents(ctx context.Context, req FeaturedRequest) ([]Event, error) {
	var out []Event
	err := r.api.Get(ctx, withQuery(basePath+"/featured", req.Query()), &out)
	return out, err
}

// ==================== Authenticated queries ====================

func (r *Repository) GetUpcomingEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	err := r.api.Get(ctx, basePath+"/upcoming", &out)
	return out, err
}

// GetUserCreatedEvents lists events organised by the signed-in user.
func (r *Repository) GetUserCreatedEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	err := r.api.Get(ctx, basePath+"/my-events", &out)
	return out, err
}

// GetUserRsvps lists the events the signed-in user has registered for.
func (r *Repository) GetUserRsvps(ctx context.Context) ([]Event, error) {
	var out []Event
	err := r.api.Get(ctx, basePath+"/my-rsvps", &out)
	return out, err
}

// GetUserRegistrationForEvent returns nil, nil when the user has no registration.
func (r *Repository) GetUserRegistrationForEvent(ctx context.Context, eventID string) (*Registration, error) {
	var raw json.RawMessage
	if err := r.api.Get(ctx, eventPath(eventID, "my-registration"), &raw); err != nil {
		if apierror.IsKind(err, apierror.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return unwrapRegistration(raw)
}

// unwrapRegistration accepts either a Result<T> envelope or the bare DTO.
func unwrapRegistration(raw json.RawMessage) (*Registration, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var envelope struct {
		IsSuccess bool          `json:"isSuccess"`
		Value     *Registration `json:"value"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apierror.New("Invalid registration response", 0, err)
	}
	if envelope.IsSuccess && envelope.Value != nil {
		return envelope.Value, nil
	}

	var reg Registration
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, apierror.New("Invalid registration response", 0, err)
	}
	if reg.ID != "" && reg.EventID != "" {
		return &reg, nil
	}
	return nil, nil
}

func (r *Repository) CheckRegistrationByEmail(ctx context.Context, eventID, email string) (*RegistrationCheck, error) {
	var out RegistrationCheck
	if err := r.api.Post(ctx, eventPath(eventID, "check-registration"), emailRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) GetWaitingList(ctx context.Context, eventID string) ([]WaitingListEntry, error) {
	var out []WaitingListEntry
	err := r.api.Get(ctx, eventPath(eventID, "waiting-list"), &out)
	return out, err
}

func (r *Repository) GetMyTicket(ctx context.Context, eventID string) (*Ticket, error) {
	var out Ticket
	if err := r.api.Get(ctx, eventPath(eventID, "my-registration", "ticket"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ==================== Event mutations ====================

// CreateEvent returns only the new event's ID.
func (r *Repository) CreateEvent(ctx context.Context, req CreateEventRequest) (string, error) {
	var raw json.RawMessage
	if err := r.api.Post(ctx, basePath, req, &raw); err != nil {
		return "", err
	}
	return extractID(raw)
}

// extractID pulls the identifier out of a bare JSON string, {id}, {eventId} or
// a {value} envelope.
func extractID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil && id != "" {
		return id, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"id", "eventId", "value"} {
			if v, ok := obj[key]; ok {
				if got, err := extractID(v); err == nil {
					return got, nil
				}
			}
		}
	}
	return "", apierror.New("Response did not contain an identifier", 0, nil)
}

func (r *Repository) UpdateEvent(ctx context.Context, id string, req UpdateEventRequest) error {
	if req.EventID == "" {
		req.EventID = id
	}
	return r.api.Put(ctx, eventPath(id), req, nil)
}

func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	return r.api.Delete(ctx, eventPath(id), nil)
}

func (r *Repository) SubmitForApproval(ctx context.Context, id string) error {
	return r.api.Post(ctx, eventPath(id, "submit"), nil, nil)
}

func (r *Repository) PublishEvent(ctx context.Context, id string) error {
	return r.api.Post(ctx, eventPath(id, "publish"), nil, nil)
}

func (r *Repository) UnpublishEvent(ctx context.Context, id string) error {
	return r.api.Post(ctx, eventPath(id, "unpublish"), nil, nil)
}

func (r *Repository) CancelEvent(ctx context.Context, id, reason string) error {
	return r.api.Post(ctx, eventPath(id, "cancel"), reasonRequest{Reason: reason}, nil)
}

func (r *Repository) PostponeEvent(ctx context.Context, id, reason string) error {
	return r.api.Post(ctx, eventPath(id, "postpone"), reasonRequest{Reason: reason}, nil)
}

// ==================== RSVP ====================

// RsvpToEvent registers the user. Paid events return a checkout URL, free ones "".
func (r *Repository) RsvpToEvent(ctx context.Context, eventID string, req RsvpRequest) (string, error) {
	var checkoutURL *string
	if err := r.api.Post(ctx, eventPath(eventID, "rsvp"), req, &checkoutURL); err != nil {
		return "", err
	}
	if checkoutURL == nil {
		return "", nil
	}
	return *checkoutURL, nil
}

// CancelRsvp optionally deletes the user's sign-up commitments too.
func (r *Repository) CancelRsvp(ctx context.Context, eventID string, deleteSignUpCommitments bool) error {
	path := eventPath(eventID, "rsvp")
	if deleteSignUpCommitments {
		path += "?deleteSignUpCommitments=true"
	}
	return r.api.Delete(ctx, path, nil)
}

func (r *Repository) UpdateRsvp(ctx context.Context, eventID, userID string, newQuantity int) error {
	return r.api.Put(ctx, eventPath(eventID, "rsvp"), UpdateRsvpRequest{UserID: userID, NewQuantity: newQuantity}, nil)
}

func (r *Repository) UpdateRegistrationDetails(ctx context.Context, eventID string, req UpdateRegistrationRequest) error {
	return r.api.Put(ctx, eventPath(eventID, "my-registration"), req, nil)
}

func (r *Repository) RegisterAnonymous(ctx context.Context, eventID string, req AnonymousRegistrationRequest) (*AnonymousRegistrationResponse, error) {
	var out AnonymousRegistrationResponse
	if err := r.api.Post(ctx, eventPath(eventID, "register-anonymous"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ==================== Waiting list ====================

func (r *Repository) AddToWaitingList(ctx context.Context, eventID string) error {
	return r.api.Post(ctx, eventPath(eventID, "waiting-list"), nil, nil)
}

func (r *Repository) RemoveFromWaitingList(ctx context.Context, eventID string) error {
	return r.api.Delete(ctx, eventPath(eventID, "waiting-list"), nil)
}

// ==================== Media ====================

func (r *Repository) UploadEventImage(ctx context.Context, eventID, fileName, contentType string, image io.Reader) (*EventImage, error) {
	var out EventImage
	form := transport.Form{Files: []transport.File{{Field: "image", Name: fileName, ContentType: contentType, Reader: image}}}
	if err := r.api.PostMultipart(ctx, eventPath(eventID, "images"), form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) ReplaceEventImage(ctx context.Context, eventID, imageID, fileName, contentType string, image io.Reader) (*EventImage, error) {
	var out EventImage
	form := transport.Form{Files: []transport.File{{Field: "image", Name: fileName, ContentType: contentType, Reader: image}}}
	if err := r.api.PutMultipart(ctx, eventPath(eventID, "images", url.PathEscape(imageID)), form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) DeleteEventImage(ctx context.Context, eventID, imageID string) error {
	return r.api.Delete(ctx, eventPath(eventID, "images", url.PathEscape(imageID)), nil)
}

// ReorderEventImages sets each image ID's display order.
func (r *Repository) ReorderEventImages(ctx context.Context, eventID string, newOrders map[string]int) error {
	return r.api.Put(ctx, eventPath(eventID, "images", "reorder"), reorderRequest{NewOrders: newOrders}, nil)
}

func (r *Repository) SetPrimaryImage(ctx context.Context, eventID, imageID string) error {
	return r.api.Post(ctx, eventPath(eventID, "images", url.PathEscape(imageID), "set-primary"), struct{}{}, nil)
}

// VideoUpload is a video and its thumbnail, both required by the server.
type VideoUpload struct {
	VideoName     string
	VideoType     string
	Video         io.Reader
	ThumbnailName string
	ThumbnailType string
	Thumbnail     io.Reader
}

func (r *Repository) UploadEventVideo(ctx context.Context, eventID string, upload VideoUpload) (*EventVideo, error) {
	var out EventVideo
	form := transport.Form{Files: []transport.File{
		{Field: "video", Name: upload.VideoName, ContentType: upload.VideoType, Reader: upload.Video},
		{Field: "thumbnail", Name: upload.ThumbnailName, ContentType: upload.ThumbnailType, Reader: upload.Thumbnail},
	}}
	if err := r.api.PostMultipart(ctx, eventPath(eventID, "videos"), form, &out, transport.WithTimeout(videoTimeout)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) DeleteEventVideo(ctx context.Context, eventID, videoID string) error {
	return r.api.Delete(ctx, eventPath(eventID, "videos", url.PathEscape(videoID)), nil)
}

// ==================== Utility ====================

// GetEventICS downloads the event as an iCalendar file.
func (r *Repository) GetEventICS(ctx context.Context, eventID string) (*transport.Blob, error) {
	return r.api.Download(ctx, eventPath(eventID, "ics"))
}

func (r *Repository) RecordEventShare(ctx context.Context, eventID, platform string) error {
	return r.api.Post(ctx, eventPath(eventID, "share"), shareRequest{Platform: platform}, nil)
}

func (r *Repository) DownloadTicketPDF(ctx context.Context, eventID string) (*transport.Blob, error) {
	return r.api.Download(ctx, eventPath(eventID, "my-registration", "ticket", "pdf"))
}

func (r *Repository) ResendTicketEmail(ctx context.Context, eventID string) error {
	return r.api.Post(ctx, eventPath(eventID, "my-registration", "ticket", "resend-email"), struct{}{}, nil)
}
