package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/mocks"
	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/service"
	"github.com/rs/zerolog"
)

const acmeCalendar = "```json\n" + `[
  {"date":"2024-03-04","platform":"instagram","content_type":"Image","topic":"Meet the team","description":"Introduce the people behind Acme","hashtags":"#acme #team","call_to_action":"Say hello"},
  {"date":"2024-03-15","platform":"Instagram","content_type":"Carousel","topic":"Product tips","description":"Five ways to use our product","hashtags":"#tips","call_to_action":"Save this post"},
  {"date":"2024-03-28","platform":"INSTAGRAM","content_type":"Reel","topic":"Behind the scenes","description":"A day in the workshop","hashtags":"#bts","call_to_action":"Follow for more"}
]` + "\n```"

type fixture struct {
	services *service.Services
	clients  *mocks.MockClientRepository
	projects *mocks.MockProjectRepository
	text     *mocks.MockTextGenerator
	vision   *mocks.MockImageAnalyzer
	images   *mocks.MockImageGenerator
}

func newFixture() *fixture {
	repos, clients, projects := mocks.NewMockRepositories()
	f := &fixture{
		clients:  clients,
		projects: projects,
		text:     mocks.NewMockTextGenerator(acmeCalendar),
		vision:   mocks.NewMockImageAnalyzer("warm colors", "handmade products"),
		images:   mocks.NewMockImageGenerator([]byte("\x89PNG")),
	}
	f.services = service.NewServices(service.Dependencies{
		Repos:  repos,
		Text:   f.text,
		Vision: f.vision,
		Images: f.images,
	}, config.Default(), zerolog.Nop())
	return f
}

func acmeRequest() *models.CreateClientRequest {
	return &models.CreateClientRequest{
		CompanyName: "Acme",
		NumPosts:    2,
		NumReels:    1,
		Platforms:   []string{"instagram"},
		TargetMonth: "2024-03",
		Suggestions: "Spring launch",
	}
}

func TestClientService_CreateClient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	client, err := f.services.Client.CreateClient(ctx, acmeRequest())
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if len(client.ContentCalendar) != 3 {
		t.Fatalf("Expected 3 generated posts, got %d", len(client.ContentCalendar))
	}
	if client.Platforms[0] != "Instagram" {
		t.Errorf("Expected normalized platform, got %s", client.Platforms[0])
	}

	// Client and project are written in one call
	if f.clients.CreateCalls != 1 {
		t.Errorf("Expected a single atomic create, got %d", f.clients.CreateCalls)
	}
	entries := f.projects.Projects["Acme"]
	if len(entries) != 3 {
		t.Fatalf("Expected 3 project entries, got %d", len(entries))
	}
	if entries[0].Day != "Monday" || entries[0].Channel != "Instagram" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}

	if !strings.Contains(f.text.Prompts[0], "Spring launch") {
		t.Error("Prompt should carry the suggestions")
	}
}

func TestClientService_CreateClient_WithImages(t *testing.T) {
	f := newFixture()
	req := acmeRequest()
	req.Images = []models.UploadedImage{
		{Filename: "a.png", MIMEType: "image/png", Data: []byte("a")},
		{Filename: "empty.png", MIMEType: "image/png"},
		{Filename: "b.jpg", MIMEType: "image/jpeg", Data: []byte("b")},
	}

	client, err := f.services.Client.CreateClient(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if f.vision.Calls != 2 {
		t.Errorf("Expected 2 vision calls, got %d", f.vision.Calls)
	}
	if client.ImageInsights != "warm colors\n\nhandmade products" {
		t.Errorf("Unexpected insights %q", client.ImageInsights)
	}
	if !strings.Contains(f.text.Prompts[0], "handmade products") {
		t.Error("Prompt should carry the image insights")
	}
}

func TestClientService_CreateClient_InsightFailure(t *testing.T) {
	f := newFixture()
	f.vision.FailOn = 1
	req := acmeRequest()
	req.Images = []models.UploadedImage{{Filename: "a.png", Data: []byte("a")}}

	_, err := f.services.Client.CreateClient(context.Background(), req)
	if !errors.Is(err, ai.ErrInsightUnavailable) {
		t.Errorf("Expected ErrInsightUnavailable, got %v", err)
	}
	if len(f.text.Prompts) != 0 {
		t.Error("Generation should not run after an insight failure")
	}
	if len(f.clients.Clients) != 0 {
		t.Error("No client should be stored")
	}
}

func TestClientService_CreateClient_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *models.CreateClientRequest)
		wantErr error
	}{
		{"empty name", func(r *models.CreateClientRequest) { r.CompanyName = "  " }, service.ErrInvalidInput},
		{"no platforms", func(r *models.CreateClientRequest) { r.Platforms = nil }, service.ErrInvalidInput},
		{"negative posts", func(r *models.CreateClientRequest) { r.NumPosts = -1 }, service.ErrInvalidInput},
		{"bad month", func(r *models.CreateClientRequest) { r.TargetMonth = "2024-13" }, service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := acmeRequest()
			tt.modify(req)

			_, err := f.services.Client.CreateClient(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if len(f.text.Prompts) != 0 {
				t.Error("Text model should not be called")
			}
		})
	}
}

func TestClientService_CreateClient_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.services.Client.CreateClient(ctx, acmeRequest()); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	_, err := f.services.Client.CreateClient(ctx, acmeRequest())
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if len(f.text.Prompts) != 1 {
		t.Errorf("Duplicate should be rejected before generation, got %d calls", len(f.text.Prompts))
	}
}

func TestClientService_CreateClient_GenerationFailure(t *testing.T) {
	f := newFixture()
	f.text.Response = `[{"date":"2024-04-01","platform":"Instagram","content_type":"Image","topic":"t","description":"d","hashtags":"","call_to_action":""}]`

	if _, err := f.services.Client.CreateClient(context.Background(), acmeRequest()); err == nil {
		t.Fatal("Expected generation failure")
	}
	if len(f.clients.Clients) != 0 || len(f.projects.Projects) != 0 {
		t.Error("Nothing should be stored after a failed generation")
	}
}

func TestCalendarService_OverwriteOnRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.services.Client.CreateClient(ctx, acmeRequest()); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	manual := models.CalendarEntry{Date: "2024-03-20", ContentType: "Image", Channel: "Instagram", TextContent: "manual"}
	if err := f.services.Calendar.AddEntry(ctx, "Acme", manual); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	if len(f.projects.Projects["Acme"]) != 4 {
		t.Fatalf("Expected 4 stored entries before read, got %d", len(f.projects.Projects["Acme"]))
	}

	project, err := f.services.Calendar.GetCalendar(ctx, "Acme")
	if err != nil {
		t.Fatalf("GetCalendar failed: %v", err)
	}
	if len(project.CalendarEntries) != 3 {
		t.Fatalf("Expected the generated 3 entries, got %d", len(project.CalendarEntries))
	}
	for _, e := range project.CalendarEntries {
		if e.TextContent == "manual" {
			t.Error("Manual entry should be discarded on read")
		}
	}
	if len(f.projects.Projects["Acme"]) != 3 {
		t.Error("Rebuilt view should be persisted")
	}
	if got := project.CalendarEntries[0].References; got != "Hashtags: #acme #team\nCTA: Say hello" {
		t.Errorf("Unexpected references %q", got)
	}
}

func TestCalendarService_StandaloneProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	project, err := f.services.Calendar.GetCalendar(ctx, "Unknown")
	if err != nil {
		t.Fatalf("GetCalendar failed: %v", err)
	}
	if project.CalendarEntries == nil || len(project.CalendarEntries) != 0 {
		t.Errorf("Expected empty non-nil entries, got %v", project.CalendarEntries)
	}
	if _, exists := f.projects.Projects["Unknown"]; exists {
		t.Error("Reading an absent project should not create it")
	}

	entry := models.CalendarEntry{Date: "2024-03-10", ContentType: "Tweet", Channel: "Twitter", TextContent: "hi"}
	if err := f.services.Calendar.AddEntry(ctx, "Legacy", entry); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	project, err = f.services.Calendar.GetCalendar(ctx, "Legacy")
	if err != nil {
		t.Fatalf("GetCalendar failed: %v", err)
	}
	if len(project.CalendarEntries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(project.CalendarEntries))
	}
	got := project.CalendarEntries[0]
	if got.Day != "Sunday" || got.Status != "pending" || got.Approval != "pending" {
		t.Errorf("Expected derived day and pending defaults, got %+v", got)
	}
	if f.projects.ReplaceCalls != 0 {
		t.Error("Standalone projects are never rewritten on read")
	}
}

func TestCalendarService_OutOfRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.services.Calendar.AddEntry(ctx, "P", models.CalendarEntry{Date: "2024-03-01", TextContent: "only"})

	err := f.services.Calendar.UpdateEntry(ctx, "P", 3, models.CalendarEntry{TextContent: "changed"})
	if !errors.Is(err, repository.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	err = f.services.Calendar.DeleteEntry(ctx, "P", -1)
	if !errors.Is(err, repository.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if entries := f.projects.Projects["P"]; len(entries) != 1 || entries[0].TextContent != "only" {
		t.Errorf("State should be unchanged, got %+v", entries)
	}
}

func TestProjectService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.services.Client.CreateClient(ctx, acmeRequest()); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	names, err := f.services.Project.AddProject(ctx, "Beta")
	if err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	if strings.Join(names, ",") != "Acme,Beta" {
		t.Errorf("Unexpected projects %v", names)
	}

	if _, err := f.services.Project.AddProject(ctx, "Beta"); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if _, err := f.services.Project.AddProject(ctx, ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	names, err = f.services.Project.DeleteProject(ctx, "Acme")
	if err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if strings.Join(names, ",") != "Beta" {
		t.Errorf("Deleted project should be gone, got %v", names)
	}
	if _, exists := f.clients.Clients["Acme"]; exists {
		t.Error("Client record should be deleted with its project")
	}

	if _, err := f.services.Project.DeleteProject(ctx, "Acme"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPreviewService_RenderPreview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.services.Client.CreateClient(ctx, acmeRequest()); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	data, err := f.services.Preview.RenderPreview(ctx, "Acme", 1)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	if !bytes.Equal(data, []byte("\x89PNG")) {
		t.Errorf("Unexpected image data %q", data)
	}
	prompt := f.images.Prompts[0]
	if !strings.Contains(prompt, "Acme") || !strings.Contains(prompt, "Product tips") {
		t.Errorf("Prompt should embed brand and text: %s", prompt)
	}

	if _, err := f.services.Preview.RenderPreview(ctx, "Acme", 9); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing index, got %v", err)
	}
	if _, err := f.services.Preview.RenderPreview(ctx, "Nobody", 0); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown client, got %v", err)
	}

	f.images.Err = ai.ErrNoImageData
	if _, err := f.services.Preview.RenderPreview(ctx, "Acme", 0); !errors.Is(err, ai.ErrRenderUnavailable) {
		t.Errorf("Expected ErrRenderUnavailable, got %v", err)
	}
}

func TestPreviewService_Probe(t *testing.T) {
	f := newFixture()
	f.text.Response = "  AI learns patterns from data.  "

	got, err := f.services.Preview.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if got != "AI learns patterns from data." {
		t.Errorf("Unexpected probe response %q", got)
	}

	f.text.Err = errors.New("quota exceeded")
	if _, err := f.services.Preview.Probe(context.Background()); err == nil {
		t.Error("Expected probe error")
	}
}

func TestExportService_Formats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.services.Calendar.AddEntry(ctx, "Legacy", models.CalendarEntry{
		Date: "2024-03-10", ContentType: "Tweet", Channel: "Twitter", TextContent: "line one\nline two",
	})

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"json", "application/json", `"calendar_entries":[`},
		{"ndjson", "application/x-ndjson", `"channel":"Twitter"`},
		{"csv", "text/csv", "date,day,content_type,channel"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := f.services.Export.ExportCalendar(ctx, w, "Legacy", tt.format); err != nil {
				t.Fatalf("ExportCalendar failed: %v", err)
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, got)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("Body should contain %q: %s", tt.contains, w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	if err := f.services.Export.ExportCalendar(ctx, w, "Legacy", "xml"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for xml, got %v", err)
	}
}

func TestImportService_CSV(t *testing.T) {
	f := newFixture()
	csvData := `date,day,content_type,channel,status,text_content,approval,hashtags,call_to_action,references
2024-03-01,,Image,instagram,,"Launch
New spring line",,#spring,Shop now,
2024-03-02,Monday,Image,Instagram,,wrong day,,,,
not-a-date,,Image,Instagram,,bad date,,,,
2024-03-05,,Tweet,Instagram,,wrong type,,,,
2024-03-01,,Image,Instagram,,"Launch
New spring line",,#spring,Shop now,
`
	result, err := f.services.Import.ImportEntries(context.Background(), "Acme", "csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportEntries failed: %v", err)
	}

	if result.TotalRows != 5 {
		t.Errorf("Expected 5 rows, got %d", result.TotalRows)
	}
	if result.Imported != 1 || result.FailedCount != 4 {
		t.Errorf("Expected 1 imported and 4 failed, got %d/%d", result.Imported, result.FailedCount)
	}

	wantLines := []int{4, 5, 6, 7}
	if len(result.Errors) != len(wantLines) {
		t.Fatalf("Expected %d errors, got %+v", len(wantLines), result.Errors)
	}
	for i, line := range wantLines {
		if result.Errors[i].Line != line {
			t.Errorf("Error %d: expected line %d, got %d (%s)", i, line, result.Errors[i].Line, result.Errors[i].Message)
		}
	}

	entries := f.projects.Projects["Acme"]
	if len(entries) != 1 {
		t.Fatalf("Expected 1 stored entry, got %d", len(entries))
	}
	if entries[0].Channel != "Instagram" || entries[0].Day != "Friday" || entries[0].Status != "pending" {
		t.Errorf("Entry should be normalized: %+v", entries[0])
	}
	if entries[0].References != "Hashtags: #spring\nCTA: Shop now" {
		t.Errorf("Unexpected references %q", entries[0].References)
	}
}

func TestImportService_WarnsOnGeneratedClient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.services.Client.CreateClient(ctx, acmeRequest()); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	data := `{"date":"2024-03-20","content_type":"Image","channel":"Instagram","text_content":"Extra"}
`
	result, err := f.services.Import.ImportEntries(ctx, "Acme", "ndjson", strings.NewReader(data))
	if err != nil {
		t.Fatalf("ImportEntries failed: %v", err)
	}
	if result.Imported != 1 || result.Warning == "" {
		t.Errorf("Expected one import with a warning, got %+v", result)
	}

	// Standalone projects keep imported rows and get no warning
	result, err = f.services.Import.ImportEntries(ctx, "Standalone", "ndjson", strings.NewReader(data))
	if err != nil {
		t.Fatalf("ImportEntries failed: %v", err)
	}
	if result.Warning != "" {
		t.Errorf("Unexpected warning %q", result.Warning)
	}
}

func TestImportService_NDJSON(t *testing.T) {
	f := newFixture()
	data := `{"date":"2024-03-04","content_type":"Article","channel":"LinkedIn","text_content":"Hiring"}

{"date":"2024-03-05","content_type":
{"date":"2024-03-06","channel":"LinkedIn"}
`
	result, err := f.services.Import.ImportEntries(context.Background(), "Beta", "ndjson", strings.NewReader(data))
	if err != nil {
		t.Fatalf("ImportEntries failed: %v", err)
	}

	if result.TotalRows != 3 || result.Imported != 1 || result.FailedCount != 2 {
		t.Errorf("Unexpected result %+v", result)
	}
	if result.Errors[0].Line != 3 || result.Errors[0].Field != "json" {
		t.Errorf("Expected JSON error on line 3, got %+v", result.Errors[0])
	}
	if result.Errors[1].Line != 4 || result.Errors[1].Field != "content_type" {
		t.Errorf("Expected content_type error on line 4, got %+v", result.Errors[1])
	}
	if len(f.projects.Projects["Beta"]) != 1 {
		t.Error("Valid entry should be appended, creating the project")
	}
}

func TestImportService_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.services.Import.ImportEntries(ctx, "", "csv", strings.NewReader("")); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty project, got %v", err)
	}
	if _, err := f.services.Import.ImportEntries(ctx, "P", "xlsx", strings.NewReader("")); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for xlsx, got %v", err)
	}

	result, err := f.services.Import.ImportEntries(ctx, "P", "csv", strings.NewReader(""))
	if err != nil {
		t.Fatalf("Empty CSV should import nothing: %v", err)
	}
	if result.TotalRows != 0 || len(f.projects.Projects) != 0 {
		t.Errorf("Empty import should not touch the store: %+v", result)
	}
}
