package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
)

func newMentorHandler(t *testing.T) *MentorHandler {
	t.Helper()
	catalog, err := directory.DefaultCatalog()
	require.NoError(t, err)
	bookmarks := repository.NewSlotBookmarkStore(repository.NewMemorySlotStore(), time.Hour)
	return NewMentorHandler(service.NewMentorService(catalog, bookmarks, nil, time.Minute, nil, nil))
}

func TestMentorHandlerListSortsByName(t *testing.T) {
	h := newMentorHandler(t)
	c, w := newGinContext(http.MethodGet, "/mentors?sort=name&pageSize=5", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	var mentors []directory.Mentor
	env := decode(t, w, &mentors)
	require.Len(t, mentors, 5)
	for i := 1; i < len(mentors); i++ {
		assert.LessOrEqual(t, mentors[i-1].Name, mentors[i].Name)
	}
	assert.Equal(t, false, env.Meta["cache_hit"])
}

func TestMentorHandlerListRejectsBadSort(t *testing.T) {
	h := newMentorHandler(t)
	c, w := newGinContext(http.MethodGet, "/mentors?sort=rating", nil)

	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMentorHandlerBookmarkRoundTrip(t *testing.T) {
	h := newMentorHandler(t)

	c, w := newGinContext(http.MethodPost, "/mentors/2/bookmark", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	asUser(c, "student-demo", models.RoleStudent)
	h.ToggleBookmark(c)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled dto.BookmarkToggleResponse
	decode(t, w, &toggled)
	assert.True(t, toggled.Bookmarked)

	c, w = newGinContext(http.MethodGet, "/mentors?bookmarked=true", nil)
	asUser(c, "student-demo", models.RoleStudent)
	h.List(c)
	var mentors []directory.Mentor
	decode(t, w, &mentors)
	require.Len(t, mentors, 1)
	assert.Equal(t, 2, mentors[0].ID)
}

func TestMentorHandlerGetUnknown(t *testing.T) {
	h := newMentorHandler(t)
	c, w := newGinContext(http.MethodGet, "/mentors/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMentorHandlerDepartments(t *testing.T) {
	h := newMentorHandler(t)
	c, w := newGinContext(http.MethodGet, "/mentors/departments", nil)

	h.Departments(c)
	var deps []dto.DepartmentResponse
	decode(t, w, &deps)
	assert.Len(t, deps, len(directory.Departments()))
}

func TestMentorHandlerBookmarksNeedsUser(t *testing.T) {
	h := newMentorHandler(t)
	c, w := newGinContext(http.MethodGet, "/mentors/bookmarks", nil)

	h.Bookmarks(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
