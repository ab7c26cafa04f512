package api_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/content-calendar-api/internal/api"
	"github.com/content-calendar-api/internal/auth"
	"github.com/content-calendar-api/internal/mocks"
	"github.com/content-calendar-api/internal/repository/document"
	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const acmeCalendar = "```json\n" + `[
  {"date":"2024-03-04","platform":"instagram","content_type":"Image","topic":"Meet the team","description":"Introduce the people behind Acme","hashtags":"#acme","call_to_action":"Say hello"},
  {"date":"2024-03-15","platform":"Instagram","content_type":"Carousel","topic":"Product tips","description":"Five ways to use our product","hashtags":"#tips","call_to_action":"Save this post"},
  {"date":"2024-03-28","platform":"INSTAGRAM","content_type":"Reel","topic":"Behind the scenes","description":"A day in the workshop","hashtags":"#bts","call_to_action":"Follow for more"}
]` + "\n```"

// TestCalendarFlow drives the real services over the JSON document store
func TestCalendarFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)

	store, err := document.New(filepath.Join(t.TempDir(), "data.json"), zerolog.Nop())
	if err != nil {
		t.Fatalf("document.New failed: %v", err)
	}
	images := mocks.NewMockImageGenerator([]byte("\x89PNG\r\n\x1a\n"))
	services := service.NewServices(service.Dependencies{
		Repos:  store.Repositories(),
		Text:   mocks.NewMockTextGenerator(acmeCalendar),
		Vision: mocks.NewMockImageAnalyzer("bold typography"),
		Images: images,
	}, cfg, zerolog.Nop())

	router := api.NewRouter(services, auth.NewMemoryStore(time.Hour), cfg, zerolog.Nop())
	cookie := login(t, router)

	// Create the client
	body, contentType := clientForm(t, map[string]string{
		"companyName": "Acme",
		"numPosts":    "2",
		"numReels":    "1",
		"platforms":   `["instagram"]`,
		"targetMonth": "2024-03",
	}, nil)
	req := httptest.NewRequest("POST", "/add_client", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("add_client failed: %d %s", w.Code, w.Body.String())
	}

	// Same name again is rejected
	body, contentType = clientForm(t, map[string]string{
		"companyName": "Acme", "platforms": `["instagram"]`, "targetMonth": "2024-03",
	}, nil)
	req = httptest.NewRequest("POST", "/add_client", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate client, got %d", w.Code)
	}

	entries := calendarEntries(t, router, cookie, "Acme")
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	first := entries[0].(map[string]interface{})
	if first["day"] != "Monday" || first["channel"] != "Instagram" || first["status"] != "pending" {
		t.Errorf("Unexpected first entry %v", first)
	}
	if first["text_content"] != "Meet the team\nIntroduce the people behind Acme" {
		t.Errorf("Unexpected text content %q", first["text_content"])
	}

	// Manual edits are replaced by the generated calendar on the next read
	w = doJSON(router, cookie, "POST", "/add_entry", map[string]interface{}{
		"project": "Acme", "date": "2024-03-20", "content_type": "Image", "channel": "Instagram", "text_content": "manual",
	})
	if decode(t, w)["success"] != true {
		t.Fatalf("add_entry failed: %s", w.Body.String())
	}
	if entries := calendarEntries(t, router, cookie, "Acme"); len(entries) != 3 {
		t.Errorf("Expected manual entry to be discarded, got %d entries", len(entries))
	}

	// Out of range edits change nothing
	w = doJSON(router, cookie, "POST", "/update_entry", map[string]interface{}{"project": "Acme", "index": 3, "text_content": "x"})
	if decode(t, w)["success"] != false {
		t.Error("Expected success=false for index 3")
	}

	// Standalone projects are created on first entry and keep their edits
	w = doJSON(router, cookie, "POST", "/add_entry", map[string]interface{}{
		"project": "Legacy", "date": "2024-03-10", "content_type": "Tweet", "channel": "Twitter", "text_content": "hi",
	})
	if decode(t, w)["success"] != true {
		t.Fatalf("add_entry failed: %s", w.Body.String())
	}
	legacy := calendarEntries(t, router, cookie, "Legacy")
	if len(legacy) != 1 || legacy[0].(map[string]interface{})["day"] != "Sunday" {
		t.Errorf("Unexpected legacy entries %v", legacy)
	}

	// Preview renders the indexed entry
	w = doJSON(router, cookie, "GET", "/preview/Acme/1", nil)
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("Expected preview image, got %d", w.Code)
	}
	if len(images.Prompts) != 1 {
		t.Errorf("Expected one image generation, got %d", len(images.Prompts))
	}

	// Deleting the project removes the client too
	w = doJSON(router, cookie, "POST", "/delete_project", map[string]string{"project_name": "Acme"})
	response := decode(t, w)
	if response["success"] != true {
		t.Fatalf("delete_project failed: %s", w.Body.String())
	}
	projects := response["projects"].([]interface{})
	if len(projects) != 1 || projects[0] != "Legacy" {
		t.Errorf("Expected only Legacy to remain, got %v", projects)
	}
	if entries := calendarEntries(t, router, cookie, "Acme"); len(entries) != 0 {
		t.Errorf("Deleted project should have no entries, got %d", len(entries))
	}
	clients, _ := services.Client.ListClients(req.Context())
	if len(clients) != 0 {
		t.Errorf("Client record should be gone, got %v", clients)
	}
}

func calendarEntries(t *testing.T, router *gin.Engine, cookie *http.Cookie, project string) []interface{} {
	t.Helper()
	w := doJSON(router, cookie, "GET", "/get_calendar_data/"+project, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get_calendar_data failed: %d", w.Code)
	}
	return decode(t, w)["calendar_entries"].([]interface{})
}
