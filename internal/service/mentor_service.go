package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

const (
	mentorCachePrefix   = "mentors:"
	defaultMentorPage   = 1
	defaultMentorPageSz = 20
)

type bookmarkStore interface {
	List(ctx context.Context, userID string) ([]int, error)
	Toggle(ctx context.Context, userID string, mentorID int) (bool, error)
}

// MentorService serves the mentor directory.
type MentorService struct {
	catalog   *directory.Catalog
	bookmarks bookmarkStore
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs the service. cache may be nil.
func NewMentorService(catalog *directory.Catalog, bookmarks bookmarkStore, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &MentorService{
		catalog:   catalog,
		bookmarks: bookmarks,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// List filters, sorts and paginates the directory for one user. The bool result reports a cache hit.
func (s *MentorService) List(ctx context.Context, userID string, q dto.MentorListQuery) ([]directory.Mentor, *response.Pagination, bool, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor query")
	}
	sortKey, err := directory.ParseSortKey(q.Sort)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sort key")
	}
	for _, id := range q.Departments {
		if _, ok := directory.LookupDepartment(id); !ok {
			return nil, nil, false, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "unknown department"),
				map[string]interface{}{"department": id})
		}
	}

	query := directory.Query{
		Departments:    q.Departments,
		Interests:      q.Interests,
		Search:         q.Search,
		Sort:           sortKey,
		BookmarkedOnly: q.BookmarkedOnly,
	}

	var (
		filtered []directory.Mentor
		hit      bool
	)
	// Bookmark-only results are per user and never cached.
	cacheable := !q.BookmarkedOnly && s.cache.Enabled()
	key := mentorCachePrefix + queryFingerprint(query)
	if cacheable {
		hit = s.cache.Get(ctx, key, &filtered)
	}
	if !hit {
		if q.BookmarkedOnly {
			ids, err := s.bookmarks.List(ctx, userID)
			if err != nil {
				return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookmarks")
			}
			query.Bookmarks = directory.NewBookmarks(ids...)
		}
		filtered = directory.Filter(s.catalog.All(), query)
		if cacheable {
			s.cache.Set(ctx, key, filtered, s.cacheTTL)
		}
	}

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = defaultMentorPage
	}
	if size < 1 {
		size = defaultMentorPageSz
	}
	// Bound page before multiplying so huge values cannot overflow.
	start := len(filtered)
	if page-1 <= len(filtered)/size {
		start = min((page-1)*size, len(filtered))
	}
	end := start + min(size, len(filtered)-start)
	return filtered[start:end], &response.Pagination{Page: page, PageSize: size, TotalCount: len(filtered)}, hit, nil
}

// Get returns one mentor.
func (s *MentorService) Get(_ context.Context, id int) (*directory.Mentor, error) {
	m, ok := s.catalog.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
	}
	return &m, nil
}

// Departments lists departments with their mentor counts.
func (s *MentorService) Departments(_ context.Context) []dto.DepartmentResponse {
	counts := make(map[string]int)
	for _, m := range s.catalog.All() {
		counts[m.DepartmentID]++
	}
	depts := directory.Departments()
	out := make([]dto.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, dto.DepartmentResponse{Department: d, MentorCount: counts[d.ID]})
	}
	return out
}

// Bookmarks returns the user's bookmarked mentor ids.
func (s *MentorService) Bookmarks(ctx context.Context, userID string) ([]int, error) {
	ids, err := s.bookmarks.List(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookmarks")
	}
	return ids, nil
}

// ToggleBookmark flips one bookmark for the user.
func (s *MentorService) ToggleBookmark(ctx context.Context, userID string, mentorID int) (*dto.BookmarkToggleResponse, error) {
	if _, ok := s.catalog.Get(mentorID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
	}
	on, err := s.bookmarks.Toggle(ctx, userID, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bookmark")
	}
	ids, err := s.bookmarks.List(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookmarks")
	}
	return &dto.BookmarkToggleResponse{MentorID: mentorID, Bookmarked: on, Bookmarks: ids}, nil
}

// InvalidateCache drops cached directory results.
func (s *MentorService) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate(ctx, mentorCachePrefix)
}

func queryFingerprint(q directory.Query) string {
	depts := append([]string(nil), q.Departments...)
	interests := append([]string(nil), q.Interests...)
	sort.Strings(depts)
	sort.Strings(interests)
	parts := []string{
		strings.Join(depts, ","),
		strings.Join(interests, ","),
		strings.ToLower(strings.TrimSpace(q.Search)),
		string(q.Sort),
		strconv.FormatBool(q.BookmarkedOnly),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
