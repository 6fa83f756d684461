package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
)

type fakeMilestoneSrv struct {
	list      []models.Milestone
	reviewer  string
	reviewReq dto.ReviewMilestoneRequest
	err       error
}

func (f *fakeMilestoneSrv) List(context.Context) []models.Milestone { return f.list }

func (f *fakeMilestoneSrv) Get(_ context.Context, id int) (*models.Milestone, error) {
	for _, m := range f.list {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "milestone not found")
}

func (f *fakeMilestoneSrv) Update(ctx context.Context, id int, _ dto.UpdateMilestoneRequest) (*models.Milestone, error) {
	return f.Get(ctx, id)
}

func (f *fakeMilestoneSrv) Replace(_ context.Context, req dto.ReplaceMilestonesRequest) ([]models.Milestone, error) {
	return req.Milestones, f.err
}

func (f *fakeMilestoneSrv) Submit(ctx context.Context, id int) (*models.Milestone, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.Get(ctx, id)
}

func (f *fakeMilestoneSrv) Review(ctx context.Context, id int, req dto.ReviewMilestoneRequest, reviewer string) (*models.Milestone, error) {
	f.reviewer = reviewer
	f.reviewReq = req
	return f.Get(ctx, id)
}

func (f *fakeMilestoneSrv) PendingReview(context.Context) []models.Milestone { return f.list[2:3] }

func (f *fakeMilestoneSrv) Reset(context.Context) []models.Milestone { return models.SeedMilestones() }

func TestMilestoneHandlerList(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{list: models.SeedMilestones()})
	c, w := newGinContext(http.MethodGet, "/milestones", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Milestone
	decode(t, w, &got)
	assert.Len(t, got, 4)
}

func TestMilestoneHandlerGetBadID(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{list: models.SeedMilestones()})
	c, w := newGinContext(http.MethodGet, "/milestones/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMilestoneHandlerGetUnknown(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{list: models.SeedMilestones()})
	c, w := newGinContext(http.MethodGet, "/milestones/99", nil)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMilestoneHandlerSubmitConflict(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{list: models.SeedMilestones(), err: appErrors.Clone(appErrors.ErrConflict, "already submitted")})
	c, w := newGinContext(http.MethodPost, "/milestones/3/submit", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	asUser(c, "student-demo", models.RoleStudent)

	h.Submit(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMilestoneHandlerReviewUsesCallerName(t *testing.T) {
	srv := &fakeMilestoneSrv{list: models.SeedMilestones()}
	h := NewMilestoneHandler(srv)
	body := mustJSON(t, dto.ReviewMilestoneRequest{Decision: models.DecisionApprove})
	c, w := newGinContext(http.MethodPost, "/milestones/3/review", body)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	asUser(c, "mentor-demo", models.RoleMentor)

	h.Review(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dr. Sarah Chen", srv.reviewer)
	assert.Equal(t, models.DecisionApprove, srv.reviewReq.Decision)
}

func TestMilestoneHandlerReviewAnonymous(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{list: models.SeedMilestones()})
	c, w := newGinContext(http.MethodPost, "/milestones/3/review", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	h.Review(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMilestoneHandlerReplaceBadJSON(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{})
	c, w := newGinContext(http.MethodPut, "/milestones", []byte(`{"milestones":`))

	h.Replace(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMilestoneHandlerPendingAndReset(t *testing.T) {
	h := NewMilestoneHandler(&fakeMilestoneSrv{list: models.SeedMilestones()})

	c, w := newGinContext(http.MethodGet, "/milestones/pending", nil)
	h.Pending(c)
	var pending []models.Milestone
	decode(t, w, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, models.MilestonePendingReview, pending[0].Status)

	c, w = newGinContext(http.MethodPost, "/milestones/reset", nil)
	h.Reset(c)
	var reset []models.Milestone
	decode(t, w, &reset)
	assert.Len(t, reset, 4)
}
