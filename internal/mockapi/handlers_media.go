package mockapi

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
)

const (
	maxUploadBytes = 32 << 20
	mediaBaseURL   = "https://media.lankaconnect.test"
)

// formFile reads one multipart file field, writing a validation error when it is
// missing. It returns the file name and size.
func formFile(w http.ResponseWriter, r *http.Request, field string) (string, int64, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Expected a multipart form.")
		return "", 0, false
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		writeValidation(w, field, "The "+field+" file is required.")
		return "", 0, false
	}
	defer f.Close()
	n, _ := io.Copy(io.Discard, f)
	return header.Filename, n, true
}

func (s *Server) UploadImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, _, ok := formFile(w, r, "image")
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		img := events.EventImage{
			ID:           uuid.NewString(),
			DisplayOrder: len(e.Images) + 1,
			IsPrimary:    len(e.Images) == 0,
			UploadedAt:   s.now().UTC().Format(time.RFC3339),
		}
		img.ImageURL = fmt.Sprintf("%s/events/%s/%s-%s", mediaBaseURL, e.ID, img.ID, name)
		e.Images = append(e.Images, img)
		writeJSON(w, http.StatusOK, img)
	}
}

func imageIndex(e *events.Event, id string) int {
	for i, img := range e.Images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) ReplaceImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, _, ok := formFile(w, r, "image")
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		i := imageIndex(e, r.PathValue("imageId"))
		if i < 0 {
			writeError(w, http.StatusNotFound, "Image not found.")
			return
		}
		img := &e.Images[i]
		img.ImageURL = fmt.Sprintf("%s/events/%s/%s-%s", mediaBaseURL, e.ID, img.ID, name)
		img.UploadedAt = s.now().UTC().Format(time.RFC3339)
		writeJSON(w, http.StatusOK, *img)
	}
}

func (s *Server) DeleteImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		i := imageIndex(e, r.PathValue("imageId"))
		if i < 0 {
			writeError(w, http.StatusNotFound, "Image not found.")
			return
		}
		wasPrimary := e.Images[i].IsPrimary
		e.Images = append(e.Images[:i], e.Images[i+1:]...)
		for j := range e.Images {
			e.Images[j].DisplayOrder = j + 1
		}
		if wasPrimary && len(e.Images) > 0 {
			e.Images[0].IsPrimary = true
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ReorderImagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			NewOrders map[string]int `json:"newOrders"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		for id := range body.NewOrders {
			if imageIndex(e, id) < 0 {
				writeValidation(w, "NewOrders", "Unknown image "+id+".")
				return
			}
		}
		for i := range e.Images {
			if order, ok := body.NewOrders[e.Images[i].ID]; ok {
				e.Images[i].DisplayOrder = order
			}
		}
		sort.SliceStable(e.Images, func(i, j int) bool { return e.Images[i].DisplayOrder < e.Images[j].DisplayOrder })
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SetPrimaryImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		i := imageIndex(e, r.PathValue("imageId"))
		if i < 0 {
			writeError(w, http.StatusNotFound, "Image not found.")
			return
		}
		for j := range e.Images {
			e.Images[j].IsPrimary = j == i
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) UploadVideoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoName, size, ok := formFile(w, r, "video")
		if !ok {
			return
		}
		thumbName, _, ok := formFile(w, r, "thumbnail")
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		id := uuid.NewString()
		format := "mp4"
		if i := strings.LastIndexByte(videoName, '.'); i >= 0 {
			format = strings.ToLower(videoName[i+1:])
		}
		video := events.EventVideo{
			ID:            id,
			VideoURL:      fmt.Sprintf("%s/events/%s/%s-%s", mediaBaseURL, e.ID, id, videoName),
			ThumbnailURL:  fmt.Sprintf("%s/events/%s/%s-%s", mediaBaseURL, e.ID, id, thumbName),
			Format:        format,
			FileSizeBytes: size,
			DisplayOrder:  len(e.Videos) + 1,
			UploadedAt:    s.now().UTC().Format(time.RFC3339),
		}
		e.Videos = append(e.Videos, video)
		writeJSON(w, http.StatusOK, video)
	}
}

func (s *Server) DeleteVideoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		for i, v := range e.Videos {
			if v.ID == r.PathValue("videoId") {
				e.Videos = append(e.Videos[:i], e.Videos[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "Video not found.")
	}
}

// ==================== Utility ====================

const icsTime = "20060102T150405Z"

func icsEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`).Replace(s)
}

func (s *Server) ICSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := s.Event(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		start, _ := e.StartTime()
		end, _ := e.EndTime()
		lines := []string{
			"BEGIN:VCALENDAR",
			"VERSION:2.0",
			"PRODID:-//LankaConnect//Events//EN",
			"BEGIN:VEVENT",
			"UID:" + e.ID + "@lankaconnect",
			"DTSTAMP:" + s.now().UTC().Format(icsTime),
			"DTSTART:" + start.UTC().Format(icsTime),
			"DTEND:" + end.UTC().Format(icsTime),
			"SUMMARY:" + icsEscape(e.Title),
			"DESCRIPTION:" + icsEscape(e.Description),
			"END:VEVENT",
			"END:VCALENDAR",
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="event-`+e.ID+`.ics"`)
		_, _ = io.WriteString(w, strings.Join(lines, "\r\n")+"\r\n")
	}
}

func (s *Server) ShareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.Event(r.PathValue("id")); !ok {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
