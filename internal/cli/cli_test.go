package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
)

type fakeMaintenance struct {
	seeded   string
	purged   int64
	purgeErr error
}

func (f *fakeMaintenance) SeedDemoUsers(_ context.Context, password string) (int, error) {
	f.seeded = password
	return 3, nil
}

func (f *fakeMaintenance) PurgeExpired(context.Context) (int64, error) {
	return f.purged, f.purgeErr
}

// testApp wires real services over an in-memory slot store.
func testApp(t *testing.T) (*App, *fakeMaintenance) {
	t.Helper()
	catalog, err := directory.DefaultCatalog()
	require.NoError(t, err)

	slots := repository.NewMemorySlotStore()
	maint := &fakeMaintenance{purged: 2}
	return &App{
		Mentors:     service.NewMentorService(catalog, repository.NewSlotBookmarkStore(slots, 0), nil, 0, nil, nil),
		Milestones:  service.NewMilestoneService(repository.NewMilestoneRepository(slots, "l2l:milestones"), nil, nil, nil, nil),
		Maintenance: maint,
	}, maint
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMentorsSearchFiltersByDepartment(t *testing.T) {
	app, _ := testApp(t)

	out, err := execute(t, app, "mentors", "search", "--department", "biology", "--sort", "name")
	require.NoError(t, err)

	assert.Contains(t, out, "Biology")
	assert.NotContains(t, out, "Dr. Sarah Chen")
	assert.Contains(t, out, "page 1")
}

func TestMentorsSearchNoResults(t *testing.T) {
	app, _ := testApp(t)

	out, err := execute(t, app, "mentors", "search", "-q", "no-such-mentor-anywhere")
	require.NoError(t, err)
	assert.Contains(t, out, "No mentors match.")
}

func TestMentorsSearchBookmarkedNeedsUser(t *testing.T) {
	app, _ := testApp(t)

	_, err := execute(t, app, "mentors", "search", "--bookmarked")
	assert.Error(t, err)
}

func TestMentorsSearchRejectsUnknownSort(t *testing.T) {
	app, _ := testApp(t)

	_, err := execute(t, app, "mentors", "search", "--sort", "rating")
	assert.Error(t, err)
}

func TestMentorsDepartments(t *testing.T) {
	app, _ := testApp(t)

	out, err := execute(t, app, "mentors", "departments")
	require.NoError(t, err)
	assert.Contains(t, out, "computer-science")
	assert.Contains(t, out, string(directory.IconCode))
}

func TestMilestonesListAndPending(t *testing.T) {
	app, _ := testApp(t)

	out, err := execute(t, app, "milestones", "list")
	require.NoError(t, err)
	for _, m := range models.SeedMilestones() {
		assert.Contains(t, out, m.Title)
	}

	out, err = execute(t, app, "milestones", "list", "--pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Prototype Demo")
	assert.NotContains(t, out, "Literature Review")
}

func TestMilestonesResetRequiresConfirmation(t *testing.T) {
	app, _ := testApp(t)

	_, err := execute(t, app, "milestones", "reset")
	require.Error(t, err)

	out, err := execute(t, app, "milestones", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 4 seed milestones.")
}

func TestWizardTableFormats(t *testing.T) {
	out, err := execute(t, &App{}, "wizard", "table")
	require.NoError(t, err)
	assert.Contains(t, out, string(wizard.ScreenPeerReviewOptions))
	assert.Contains(t, out, "exit:mentorship")

	out, err = execute(t, &App{}, "wizard", "table", "-o", "yaml")
	require.NoError(t, err)
	var edges []wizard.Edge
	require.NoError(t, yaml.Unmarshal([]byte(out), &edges))
	assert.Equal(t, wizard.Table(), edges)

	_, err = execute(t, &App{}, "wizard", "table", "-o", "xml")
	assert.Error(t, err)
}

func TestWizardEvents(t *testing.T) {
	out, err := execute(t, &App{}, "wizard", "events", string(wizard.ScreenEntry))
	require.NoError(t, err)
	assert.Contains(t, out, string(wizard.EventChooseGuided))
	assert.Contains(t, out, string(wizard.EventRestart))

	_, err = execute(t, &App{}, "wizard", "events", "nowhere")
	assert.Error(t, err)
}

func TestNavigationResolve(t *testing.T) {
	out, err := execute(t, &App{}, "navigation", "resolve", "/student/dashboard")
	require.NoError(t, err)
	assert.Equal(t, "/student/dashboard -> dashboard (/dashboard)\n", out)

	out, err = execute(t, &App{}, "navigation", "views")
	require.NoError(t, err)
	assert.Contains(t, out, "/project-builder")
}

func TestNavigationWalkReplaysHistory(t *testing.T) {
	out, err := execute(t, &App{}, "navigation", "walk",
		"mentorship", "project-builder", "back", "back", "back", "forward", "/mentors")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Regexp(t, `^back\s+/\s+dashboard\s+at start$`, strings.TrimSpace(lines[6]))
	assert.Regexp(t, `^forward\s+/mentors\s+mentorship$`, strings.TrimSpace(lines[7]))
	assert.Regexp(t, `^/mentors\s+/mentors\s+mentorship\s+unchanged$`, strings.TrimSpace(lines[8]))
	assert.Equal(t, "3 history entries", lines[9])

	_, err = execute(t, &App{}, "navigation", "walk")
	assert.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	app, maint := testApp(t)

	_, err := execute(t, app, "store", "seed-users")
	require.Error(t, err)

	out, err := execute(t, app, "store", "seed-users", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", maint.seeded)
	assert.Contains(t, out, "Created 3 demo users.")

	out, err = execute(t, app, "store", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "Purged 2 expired slots.")

	maint.purgeErr = errors.New("locked")
	_, err = execute(t, app, "store", "purge")
	assert.EqualError(t, err, "locked")
}

func TestCommandsWithoutServices(t *testing.T) {
	for _, args := range [][]string{
		{"mentors", "departments"},
		{"milestones", "list"},
		{"store", "purge"},
	} {
		_, err := execute(t, &App{}, args...)
		assert.Error(t, err, args)
	}
}
