// Package repotest holds the behaviour checks shared by every repository backend.
package repotest

import (
	"context"
	"testing"

	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty set of repositories
type Factory func(t *testing.T) *repository.Repositories

// Run exercises a backend against the repository contract
func Run(t *testing.T, newRepos Factory) {
	t.Run("CreateClientWithProject", func(t *testing.T) { testCreateClientWithProject(t, newRepos(t)) })
	t.Run("DuplicateClient", func(t *testing.T) { testDuplicateClient(t, newRepos(t)) })
	t.Run("ClientReplacesStandaloneProject", func(t *testing.T) { testClientReplacesStandaloneProject(t, newRepos(t)) })
	t.Run("MissingRecords", func(t *testing.T) { testMissingRecords(t, newRepos(t)) })
	t.Run("ProjectCreateAndList", func(t *testing.T) { testProjectCreateAndList(t, newRepos(t)) })
	t.Run("AppendCreatesProject", func(t *testing.T) { testAppendCreatesProject(t, newRepos(t)) })
	t.Run("ReplaceEntries", func(t *testing.T) { testReplaceEntries(t, newRepos(t)) })
	t.Run("UpdateAndDeleteEntry", func(t *testing.T) { testUpdateAndDeleteEntry(t, newRepos(t)) })
	t.Run("EntryIndexOutOfRange", func(t *testing.T) { testEntryIndexOutOfRange(t, newRepos(t)) })
	t.Run("DeleteRemovesClientAndProject", func(t *testing.T) { testDeleteRemovesClientAndProject(t, newRepos(t)) })
}

// Entry builds a pending calendar entry for tests
func Entry(date, channel, text string) models.CalendarEntry {
	return models.CalendarEntry{
		Date:        date,
		Day:         "Friday",
		ContentType: "Image",
		Channel:     channel,
		Status:      models.EntryStatusPending,
		TextContent: text,
		Approval:    models.EntryApprovalPending,
		References:  "Hashtags: #a\nCTA: Go",
	}
}

func sampleClient(name string) *models.Client {
	return &models.Client{
		CompanyName: name,
		NumPosts:    1,
		NumReels:    0,
		Platforms:   []string{"Instagram"},
		TargetMonth: "2024-03",
		Suggestions: "spring launch",
		ContentCalendar: []models.GeneratedPost{{
			Date:         "2024-03-01",
			Platform:     "Instagram",
			ContentType:  "Image",
			Topic:        "Launch",
			Description:  "New spring line",
			Hashtags:     "#spring",
			CallToAction: "Shop now",
		}},
	}
}

func testCreateClientWithProject(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	client := sampleClient("Acme")
	project := &models.Project{Name: "Acme", CalendarEntries: []models.CalendarEntry{
		Entry("2024-03-01", "Instagram", "Launch\nNew spring line"),
	}}

	require.NoError(t, repos.Client.Create(ctx, client, project))

	got, err := repos.Client.GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Acme", got.CompanyName)
	require.Equal(t, []string{"Instagram"}, got.Platforms)
	require.Equal(t, "spring launch", got.Suggestions)
	require.Len(t, got.ContentCalendar, 1)
	require.Equal(t, "Shop now", got.ContentCalendar[0].CallToAction)
	require.False(t, got.CreatedAt.IsZero())

	p, err := repos.Project.GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, project.CalendarEntries, p.CalendarEntries)

	names, err := repos.Client.ListNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Acme"}, names)
}

func testDuplicateClient(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Client.Create(ctx, sampleClient("Acme"), &models.Project{Name: "Acme"}))

	err := repos.Client.Create(ctx, sampleClient("Acme"), &models.Project{Name: "Acme"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	// Names are case-sensitive
	require.NoError(t, repos.Client.Create(ctx, sampleClient("acme"), &models.Project{Name: "acme"}))

	names, err := repos.Client.ListNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Acme", "acme"}, names)
}

func testClientReplacesStandaloneProject(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Project.AppendEntries(ctx, "Legacy", Entry("2024-01-05", "Facebook", "old")))

	project := &models.Project{Name: "Legacy", CalendarEntries: []models.CalendarEntry{
		Entry("2024-03-01", "Instagram", "new"),
	}}
	require.NoError(t, repos.Client.Create(ctx, sampleClient("Legacy"), project))

	p, err := repos.Project.GetByName(ctx, "Legacy")
	require.NoError(t, err)
	require.Len(t, p.CalendarEntries, 1)
	require.Equal(t, "new", p.CalendarEntries[0].TextContent)
}

func testMissingRecords(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()

	c, err := repos.Client.GetByName(ctx, "Ghost")
	require.NoError(t, err)
	require.Nil(t, c)

	p, err := repos.Project.GetByName(ctx, "Ghost")
	require.NoError(t, err)
	require.Nil(t, p)

	names, err := repos.Project.ListNames(ctx)
	require.NoError(t, err)
	require.Empty(t, names)

	require.ErrorIs(t, repos.Project.Delete(ctx, "Ghost"), repository.ErrNotFound)
	require.ErrorIs(t, repos.Project.UpdateEntry(ctx, "Ghost", 0, Entry("2024-03-01", "Instagram", "x")), repository.ErrNotFound)
	require.ErrorIs(t, repos.Project.DeleteEntry(ctx, "Ghost", 0), repository.ErrNotFound)
}

func testProjectCreateAndList(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Project.Create(ctx, "Zeta"))
	require.NoError(t, repos.Project.Create(ctx, "Alpha"))
	require.ErrorIs(t, repos.Project.Create(ctx, "Zeta"), repository.ErrAlreadyExists)

	names, err := repos.Project.ListNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Alpha", "Zeta"}, names)

	p, err := repos.Project.GetByName(ctx, "Alpha")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Empty(t, p.Entries())

	// A standalone project has no client record
	c, err := repos.Client.GetByName(ctx, "Alpha")
	require.NoError(t, err)
	require.Nil(t, c)
}

func testAppendCreatesProject(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Project.AppendEntries(ctx, "New", Entry("2024-03-01", "Instagram", "first")))
	require.NoError(t, repos.Project.AppendEntries(ctx, "New", Entry("2024-03-02", "Twitter", "second")))

	p, err := repos.Project.GetByName(ctx, "New")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Len(t, p.CalendarEntries, 2)
	require.Equal(t, "first", p.CalendarEntries[0].TextContent)
	require.Equal(t, "second", p.CalendarEntries[1].TextContent)
}

func testReplaceEntries(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Project.AppendEntries(ctx, "P", Entry("2024-03-01", "Instagram", "manual")))

	replacement := []models.CalendarEntry{
		Entry("2024-03-04", "LinkedIn", "a"),
		Entry("2024-03-05", "LinkedIn", "b"),
	}
	require.NoError(t, repos.Project.ReplaceEntries(ctx, "P", replacement))

	p, err := repos.Project.GetByName(ctx, "P")
	require.NoError(t, err)
	require.Equal(t, replacement, p.CalendarEntries)

	require.NoError(t, repos.Project.ReplaceEntries(ctx, "P", nil))
	p, err = repos.Project.GetByName(ctx, "P")
	require.NoError(t, err)
	require.Empty(t, p.Entries())
}

func testUpdateAndDeleteEntry(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Project.AppendEntries(ctx, "P",
		Entry("2024-03-01", "Instagram", "a"),
		Entry("2024-03-02", "Instagram", "b"),
		Entry("2024-03-03", "Instagram", "c"),
	))

	updated := Entry("2024-03-02", "Facebook", "b2")
	updated.Approval = "approved"
	require.NoError(t, repos.Project.UpdateEntry(ctx, "P", 1, updated))
	require.NoError(t, repos.Project.DeleteEntry(ctx, "P", 0))

	p, err := repos.Project.GetByName(ctx, "P")
	require.NoError(t, err)
	require.Len(t, p.CalendarEntries, 2)
	require.Equal(t, updated, p.CalendarEntries[0])
	require.Equal(t, "c", p.CalendarEntries[1].TextContent)
}

func testEntryIndexOutOfRange(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Project.AppendEntries(ctx, "P", Entry("2024-03-01", "Instagram", "a")))

	require.ErrorIs(t, repos.Project.UpdateEntry(ctx, "P", 1, Entry("2024-03-09", "Instagram", "x")), repository.ErrIndexOutOfRange)
	require.ErrorIs(t, repos.Project.UpdateEntry(ctx, "P", -1, Entry("2024-03-09", "Instagram", "x")), repository.ErrIndexOutOfRange)
	require.ErrorIs(t, repos.Project.DeleteEntry(ctx, "P", 5), repository.ErrIndexOutOfRange)

	p, err := repos.Project.GetByName(ctx, "P")
	require.NoError(t, err)
	require.Len(t, p.CalendarEntries, 1)
	require.Equal(t, "a", p.CalendarEntries[0].TextContent)
}

func testDeleteRemovesClientAndProject(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	require.NoError(t, repos.Client.Create(ctx, sampleClient("Acme"), &models.Project{Name: "Acme",
		CalendarEntries: []models.CalendarEntry{Entry("2024-03-01", "Instagram", "a")}}))
	require.NoError(t, repos.Project.Create(ctx, "Other"))

	require.NoError(t, repos.Project.Delete(ctx, "Acme"))

	c, err := repos.Client.GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.Nil(t, c)

	p, err := repos.Project.GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.Nil(t, p)

	names, err := repos.Project.ListNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Other"}, names)

	clients, err := repos.Client.ListNames(ctx)
	require.NoError(t, err)
	require.Empty(t, clients)
}
