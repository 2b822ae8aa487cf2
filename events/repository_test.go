package events_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/utils"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

type testFixture struct {
	repo *events.Repository

	mu       sync.Mutex
	requests []recorded
	respond  func(w http.ResponseWriter, r *http.Request)
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		respond: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery, Body: string(body)})
		respond := f.respond
		f.mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	client := transport.New(transport.Config{BaseURL: srv.URL + "/api"}, transport.WithHTTPClient(srv.Client()))
	f.repo = events.NewRepository(client)
	return f
}

func (f *testFixture) reply(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

func (f *testFixture) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestGetEventsQuery(t *testing.T) {
	f := setupTestFixture(t)
	f.reply(http.StatusOK, []events.Event{})
	ctx := context.Background()

	t.Run("empty filters send no query", func(t *testing.T) {
		_, err := f.repo.GetEvents(ctx, events.GetEventsRequest{})
		require.NoError(t, err)
		req := f.last(t)
		require.Equal(t, "/api/events", req.Path)
		require.Equal(t, "", req.RawQuery)
	})

	t.Run("explicit false is sent", func(t *testing.T) {
		_, err := f.repo.GetEvents(ctx, events.GetEventsRequest{IsFreeOnly: utils.Ptr(false)})
		require.NoError(t, err)
		require.Equal(t, "isFreeOnly=false", f.last(t).RawQuery)
	})

	t.Run("enums are numeric and metro ids repeat", func(t *testing.T) {
		status := events.StatusPublished
		_, err := f.repo.GetEvents(ctx, events.GetEventsRequest{
			Status:       &status,
			City:         "Cleveland",
			Latitude:     utils.Ptr(41.4993),
			Longitude:    utils.Ptr(-81.6944),
			MetroAreaIDs: []string{"m1", "", "m2"},
		})
		require.NoError(t, err)
		q := f.last(t).RawQuery
		require.Contains(t, q, "status=1")
		require.Contains(t, q, "city=Cleveland")
		require.Contains(t, q, "latitude=41.4993")
		require.Contains(t, q, "longitude=-81.6944")
		require.Contains(t, q, "metroAreaIds=m1&metroAreaIds=m2")
		require.NotContains(t, q, "category")
		require.NotContains(t, q, "isFreeOnly")
	})
}

func TestSearchDefaults(t *testing.T) {
	f := setupTestFixture(t)
	f.reply(http.StatusOK, events.PagedResult[events.Event]{Items: []events.Event{{ID: "1", Title: "Vesak Lanterns"}}, TotalCount: 1, Page: 1, PageSize: 20})

	res, err := f.repo.SearchEvents(context.Background(), events.SearchEventsRequest{SearchTerm: "vesak"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	req := f.last(t)
	require.Equal(t, "/api/events/search", req.Path)
	require.Equal(t, "page=1&pageSize=20&searchTerm=vesak", req.RawQuery)
}

func TestNearbyAndFeatured(t *testing.T) {
	f := setupTestFixture(t)
	f.reply(http.StatusOK, []events.Event{})
	ctx := context.Background()

	_, err := f.repo.GetNearbyEvents(ctx, events.GetNearbyEventsRequest{Latitude: 40.7, Longitude: -74, RadiusKm: 25})
	require.NoError(t, err)
	require.Equal(t, "latitude=40.7&longitude=-74&radiusKm=25", f.last(t).RawQuery)

	_, err = f.repo.GetFeaturedEvents(ctx, events.FeaturedRequest{})
	require.NoError(t, err)
	req := f.last(t)
	require.Equal(t, "/api/events/featured", req.Path)
	require.Equal(t, "", req.RawQuery)
}

func TestCreateEventExtractsID(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"bare string", "40b297c9-2867-4f6b-900c-b5d0f230efe8"},
		{"id field", map[string]string{"id": "40b297c9-2867-4f6b-900c-b5d0f230efe8"}},
		{"eventId field", map[string]string{"eventId": "40b297c9-2867-4f6b-900c-b5d0f230efe8"}},
		{"result envelope", map[string]any{"isSuccess": true, "value": "40b297c9-2867-4f6b-900c-b5d0f230efe8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.reply(http.StatusCreated, tt.body)
			id, err := f.repo.CreateEvent(context.Background(), events.CreateEventRequest{Title: "Avurudu", Capacity: 100})
			require.NoError(t, err)
			require.Equal(t, "40b297c9-2867-4f6b-900c-b5d0f230efe8", id)
			require.Equal(t, http.MethodPost, f.last(t).Method)
		})
	}

	t.Run("no identifier", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.StatusCreated, map[string]string{"status": "ok"})
		_, err := f.repo.CreateEvent(context.Background(), events.CreateEventRequest{})
		require.ErrorIs(t, err, apierror.ErrGeneric)
	})
}

func TestSideEffectEndpoints(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
		body   string
	}{
		{"update", func() error {
			return f.repo.UpdateEvent(ctx, "42", events.UpdateEventRequest{Title: utils.Ptr("New")})
		}, http.MethodPut, "/api/events/42", "", `{"eventId":"42","title":"New"}`},
		{"delete", func() error { return f.repo.DeleteEvent(ctx, "42") }, http.MethodDelete, "/api/events/42", "", ""},
		{"submit", func() error { return f.repo.SubmitForApproval(ctx, "42") }, http.MethodPost, "/api/events/42/submit", "", ""},
		{"publish", func() error { return f.repo.PublishEvent(ctx, "42") }, http.MethodPost, "/api/events/42/publish", "", ""},
		{"unpublish", func() error { return f.repo.UnpublishEvent(ctx, "42") }, http.MethodPost, "/api/events/42/unpublish", "", ""},
		{"cancel", func() error { return f.repo.CancelEvent(ctx, "42", "rain") }, http.MethodPost, "/api/events/42/cancel", "", `{"reason":"rain"}`},
		{"postpone", func() error { return f.repo.PostponeEvent(ctx, "42", "venue") }, http.MethodPost, "/api/events/42/postpone", "", `{"reason":"venue"}`},
		{"cancel rsvp", func() error { return f.repo.CancelRsvp(ctx, "42", false) }, http.MethodDelete, "/api/events/42/rsvp", "", ""},
		{"cancel rsvp with commitments", func() error { return f.repo.CancelRsvp(ctx, "42", true) }, http.MethodDelete, "/api/events/42/rsvp", "deleteSignUpCommitments=true", ""},
		{"update rsvp", func() error { return f.repo.UpdateRsvp(ctx, "42", "u1", 3) }, http.MethodPut, "/api/events/42/rsvp", "", `{"userId":"u1","newQuantity":3}`},
		{"join waiting list", func() error { return f.repo.AddToWaitingList(ctx, "42") }, http.MethodPost, "/api/events/42/waiting-list", "", ""},
		{"leave waiting list", func() error { return f.repo.RemoveFromWaitingList(ctx, "42") }, http.MethodDelete, "/api/events/42/waiting-list", "", ""},
		{"reorder images", func() error {
			return f.repo.ReorderEventImages(ctx, "42", map[string]int{"img1": 2, "img2": 1})
		}, http.MethodPut, "/api/events/42/images/reorder", "", `{"newOrders":{"img1":2,"img2":1}}`},
		{"set primary", func() error { return f.repo.SetPrimaryImage(ctx, "42", "img1") }, http.MethodPost, "/api/events/42/images/img1/set-primary", "", `{}`},
		{"delete video", func() error { return f.repo.DeleteEventVideo(ctx, "42", "v1") }, http.MethodDelete, "/api/events/42/videos/v1", "", ""},
		{"share", func() error { return f.repo.RecordEventShare(ctx, "42", "whatsapp") }, http.MethodPost, "/api/events/42/share", "", `{"platform":"whatsapp"}`},
		{"resend ticket", func() error { return f.repo.ResendTicketEmail(ctx, "42") }, http.MethodPost, "/api/events/42/my-registration/ticket/resend-email", "", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			req := f.last(t)
			require.Equal(t, tt.method, req.Method)
			require.Equal(t, tt.path, req.Path)
			require.Equal(t, tt.query, req.RawQuery)
			if tt.body == "" {
				require.Empty(t, req.Body)
			} else {
				require.JSONEq(t, tt.body, req.Body)
			}
		})
	}
}

func TestSideEffectErrorsPropagate(t *testing.T) {
	f := setupTestFixture(t)
	f.reply(http.StatusForbidden, map[string]string{"message": "Only the organizer can publish"})

	err := f.repo.PublishEvent(context.Background(), "42")
	require.ErrorIs(t, err, apierror.ErrForbidden)
	apiErr, _ := apierror.As(err)
	require.Equal(t, "Only the organizer can publish", apiErr.Message)
}

func TestRsvpToEvent(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.reply(http.StatusOK, nil)
	url, err := f.repo.RsvpToEvent(ctx, "42", events.RsvpRequest{UserID: "u1", Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, "", url)
	require.JSONEq(t, `{"userId":"u1","quantity":2}`, f.last(t).Body)

	f.reply(http.StatusOK, "https://checkout.stripe.test/session")
	url, err = f.repo.RsvpToEvent(ctx, "42", events.RsvpRequest{UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, "https://checkout.stripe.test/session", url)
}

func TestGetUserRegistrationForEvent(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	reg := events.Registration{ID: "r1", EventID: "42", Quantity: 2, Status: events.RegistrationConfirmed}

	t.Run("result envelope", func(t *testing.T) {
		f.reply(http.StatusOK, map[string]any{"isSuccess": true, "value": reg})
		got, err := f.repo.GetUserRegistrationForEvent(ctx, "42")
		require.NoError(t, err)
		require.Equal(t, "r1", got.ID)
		require.Equal(t, "/api/events/42/my-registration", f.last(t).Path)
	})

	t.Run("bare dto", func(t *testing.T) {
		f.reply(http.StatusOK, reg)
		got, err := f.repo.GetUserRegistrationForEvent(ctx, "42")
		require.NoError(t, err)
		require.Equal(t, 2, got.AttendeeCount())
	})

	t.Run("not found is nil", func(t *testing.T) {
		f.reply(http.StatusNotFound, map[string]string{"message": "No registration"})
		got, err := f.repo.GetUserRegistrationForEvent(ctx, "42")
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("unauthorized propagates", func(t *testing.T) {
		f.reply(http.StatusUnauthorized, nil)
		_, err := f.repo.GetUserRegistrationForEvent(ctx, "42")
		require.ErrorIs(t, err, apierror.ErrUnauthorized)
	})
}

func TestMediaUploads(t *testing.T) {
	f := setupTestFixture(t)
	f.reply(http.StatusOK, events.EventImage{ID: "img1", ImageURL: "https://cdn.test/img1.png", DisplayOrder: 1})

	img, err := f.repo.UploadEventImage(context.Background(), "42", "poster.png", "image/png", strings.NewReader("PNG"))
	require.NoError(t, err)
	require.Equal(t, "img1", img.ID)
	req := f.last(t)
	require.Equal(t, "/api/events/42/images", req.Path)
	require.Contains(t, req.Body, `form-data; filename=poster.png; name=image`)

	f.reply(http.StatusOK, events.EventVideo{ID: "v1"})
	video, err := f.repo.UploadEventVideo(context.Background(), "42", events.VideoUpload{
		VideoName: "clip.mp4", VideoType: "video/mp4", Video: strings.NewReader("MP4"),
		ThumbnailName: "thumb.jpg", ThumbnailType: "image/jpeg", Thumbnail: strings.NewReader("JPG"),
	})
	require.NoError(t, err)
	require.Equal(t, "v1", video.ID)
	body := f.last(t).Body
	require.Contains(t, body, `form-data; filename=clip.mp4; name=video`)
	require.Contains(t, body, `form-data; filename=thumb.jpg; name=thumbnail`)

	f.reply(http.StatusOK, events.EventImage{ID: "img2"})
	img, err = f.repo.ReplaceEventImage(context.Background(), "42", "img1", "new.png", "image/png", strings.NewReader("PNG2"))
	require.NoError(t, err)
	require.Equal(t, "img2", img.ID)
	require.Equal(t, http.MethodPut, f.last(t).Method)
	require.Equal(t, "/api/events/42/images/img1", f.last(t).Path)
}

func TestDownloads(t *testing.T) {
	f := setupTestFixture(t)
	f.mu.Lock()
	f.respond = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR"))
	}
	f.mu.Unlock()

	blob, err := f.repo.GetEventICS(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "/api/events/42/ics", f.last(t).Path)
	require.True(t, strings.HasPrefix(string(blob.Data), "BEGIN:VCALENDAR"))

	_, err = f.repo.DownloadTicketPDF(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "/api/events/42/my-registration/ticket/pdf", f.last(t).Path)
}

func TestListEndpoints(t *testing.T) {
	f := setupTestFixture(t)
	f.reply(http.StatusOK, []events.Event{{ID: "1"}})
	ctx := context.Background()

	calls := map[string]func() ([]events.Event, error){
		"/api/events/upcoming":  func() ([]events.Event, error) { return f.repo.GetUpcomingEvents(ctx) },
		"/api/events/my-events": func() ([]events.Event, error) { return f.repo.GetUserCreatedEvents(ctx) },
		"/api/events/my-rsvps":  func() ([]events.Event, error) { return f.repo.GetUserRsvps(ctx) },
	}
	for path, call := range calls {
		got, err := call()
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, path, f.last(t).Path)
	}
}

func TestSignUpEndpoints(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		body   string
	}{
		{"add list", func() error {
			return f.repo.AddSignUpList(ctx, "42", events.AddSignUpListRequest{Category: "Food", SignUpType: events.SignUpPredefined, PredefinedItems: []string{"Rice"}})
		}, http.MethodPost, "/api/events/42/signups", `{"category":"Food","description":"","signUpType":1,"predefinedItems":["Rice"]}`},
		{"update list", func() error {
			return f.repo.UpdateSignUpList(ctx, "42", "s1", events.UpdateSignUpListRequest{Category: "Food", HasOpenItems: true})
		}, http.MethodPut, "/api/events/42/signups/s1", `{"category":"Food","description":"","hasMandatoryItems":false,"hasPreferredItems":false,"hasSuggestedItems":false,"hasOpenItems":true}`},
		{"remove list", func() error { return f.repo.RemoveSignUpList(ctx, "42", "s1") }, http.MethodDelete, "/api/events/42/signups/s1", ""},
		{"commit", func() error {
			return f.repo.CommitToSignUp(ctx, "42", "s1", events.CommitToSignUpRequest{UserID: "u1", ItemDescription: "Kiribath", Quantity: 2})
		}, http.MethodPost, "/api/events/42/signups/s1/commit", `{"userId":"u1","itemDescription":"Kiribath","quantity":2}`},
		{"cancel commitment", func() error {
			return f.repo.CancelCommitment(ctx, "42", "s1", events.CancelCommitmentRequest{UserID: "u1"})
		}, http.MethodDelete, "/api/events/42/signups/s1/commit", `{"userId":"u1"}`},
		{"update item", func() error {
			return f.repo.UpdateSignUpItem(ctx, "42", "s1", "i1", events.UpdateSignUpItemRequest{ItemDescription: "Plates", Quantity: 50})
		}, http.MethodPut, "/api/events/42/signups/s1/items/i1", `{"itemDescription":"Plates","quantity":50}`},
		{"remove item", func() error { return f.repo.RemoveSignUpItem(ctx, "42", "s1", "i1") }, http.MethodDelete, "/api/events/42/signups/s1/items/i1", ""},
		{"commit item", func() error {
			return f.repo.CommitToSignUpItem(ctx, "42", "s1", "i1", events.CommitToSignUpItemRequest{UserID: "u1", Quantity: 1, ContactEmail: "a@example.com"})
		}, http.MethodPost, "/api/events/42/signups/s1/items/i1/commit", `{"userId":"u1","quantity":1,"contactEmail":"a@example.com"}`},
		{"update open item", func() error {
			return f.repo.UpdateOpenSignUpItem(ctx, "42", "s1", "i1", events.OpenSignUpItemRequest{UserID: "u1", ItemName: "Wattalappan", Quantity: 1})
		}, http.MethodPut, "/api/events/42/signups/s1/open-items/i1", `{"userId":"u1","itemName":"Wattalappan","quantity":1}`},
		{"cancel open item", func() error { return f.repo.CancelOpenSignUpItem(ctx, "42", "s1", "i1") }, http.MethodDelete, "/api/events/42/signups/s1/open-items/i1", ""},
		{"send notification", func() error { return f.repo.SendEventNotification(ctx, "42") }, http.MethodPost, "/api/events/42/send-notification", `{}`},
		{"send reminder", func() error { return f.repo.SendEventReminder(ctx, "42", " 1day ") }, http.MethodPost, "/api/events/42/send-reminder", `{"reminderType":"1day"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			req := f.last(t)
			require.Equal(t, tt.method, req.Method)
			require.Equal(t, tt.path, req.Path)
			if tt.body == "" {
				require.Empty(t, req.Body)
			} else {
				require.JSONEq(t, tt.body, req.Body)
			}
		})
	}
}

func TestSignUpCreatesReturnIDs(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.reply(http.StatusOK, "list-1")
	id, err := f.repo.CreateSignUpList(ctx, "42", events.CreateSignUpListRequest{
		Category:          "Potluck",
		HasMandatoryItems: true,
		Items:             []events.SignUpItemRequest{{ItemDescription: "Rice", Quantity: 3, ItemCategory: events.ItemMandatory}},
	})
	require.NoError(t, err)
	require.Equal(t, "list-1", id)
	require.Equal(t, "/api/events/42/signups", f.last(t).Path)

	f.reply(http.StatusCreated, map[string]string{"id": "item-1"})
	id, err = f.repo.AddSignUpItem(ctx, "42", "list-1", events.SignUpItemRequest{ItemDescription: "Curd", Quantity: 2, ItemCategory: events.ItemPreferred})
	require.NoError(t, err)
	require.Equal(t, "item-1", id)
	require.Equal(t, "/api/events/42/signups/list-1/items", f.last(t).Path)

	f.reply(http.StatusOK, map[string]string{"value": "item-2"})
	id, err = f.repo.AddOpenSignUpItem(ctx, "42", "list-1", events.OpenSignUpItemRequest{UserID: "u1", ItemName: "Kokis", Quantity: 20})
	require.NoError(t, err)
	require.Equal(t, "item-2", id)
	require.Equal(t, "/api/events/42/signups/list-1/open-items", f.last(t).Path)
}

func TestSignUpRequestsValidateLocally(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	err := f.repo.AddSignUpList(ctx, "42", events.AddSignUpListRequest{})
	require.ErrorIs(t, err, apierror.ErrValidation)

	_, err = f.repo.CreateSignUpList(ctx, "42", events.CreateSignUpListRequest{
		Category: "Potluck",
		Items:    []events.SignUpItemRequest{{ItemDescription: "Rice", Quantity: 0}},
	})
	require.ErrorIs(t, err, apierror.ErrValidation)

	err = f.repo.CommitToSignUpItem(ctx, "42", "s1", "i1", events.CommitToSignUpItemRequest{UserID: "u1", Quantity: 1, ContactEmail: "not-an-email"})
	require.ErrorIs(t, err, apierror.ErrValidation)
	apiErr, _ := apierror.As(err)
	require.Contains(t, apiErr.Fields(), "contactEmail")

	err = f.repo.SendEventReminder(ctx, "42", "  ")
	require.ErrorIs(t, err, apierror.ErrValidation)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Empty(t, f.requests)
}

func TestOrganizerReads(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.reply(http.StatusOK, []events.SignUpList{{ID: "s1", Category: "Food", Items: []events.SignUpItem{{ID: "i1", ItemDescription: "Rice"}}}})
	lists, err := f.repo.GetEventSignUpLists(ctx, "42")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	item, ok := lists[0].Item("i1")
	require.True(t, ok)
	require.Equal(t, "Rice", item.ItemDescription)
	require.Equal(t, "/api/events/42/signups", f.last(t).Path)

	f.reply(http.StatusOK, events.EventAttendees{EventID: "42", TotalRegistrations: 2, NetRevenue: 95, TotalOrganizerPayout: 90})
	attendees, err := f.repo.GetEventAttendees(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, 2, attendees.TotalRegistrations)
	require.InDelta(t, 95, attendees.Payout(), 0.001)
	require.Equal(t, "/api/events/42/attendees", f.last(t).Path)

	f.reply(http.StatusOK, []events.NotificationHistory{{ID: "n1", RecipientCount: 3, SuccessfulSends: 3}})
	history, err := f.repo.GetEventNotificationHistory(ctx, "42")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "/api/events/42/notification-history", f.last(t).Path)

	f.mu.Lock()
	f.respond = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("RegistrationId,Name\n"))
	}
	f.mu.Unlock()
	blob, err := f.repo.ExportEventAttendees(ctx, "42", events.ExportCSV)
	require.NoError(t, err)
	require.Equal(t, "/api/events/42/attendees/export", f.last(t).Path)
	require.Equal(t, "format=csv", f.last(t).RawQuery)
	require.True(t, strings.HasPrefix(string(blob.Data), "RegistrationId"))
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]events.ExportFormat{"csv": events.ExportCSV, " Excel ": events.ExportExcel, "xlsx": events.ExportExcel} {
		got, err := events.ParseExportFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := events.ParseExportFormat("pdf")
	require.ErrorIs(t, err, apierror.ErrValidation)
	require.Equal(t, "xlsx", events.ExportExcel.Extension())
}
