package dto

import "github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"

// MentorListQuery binds GET /mentors query parameters.
type MentorListQuery struct {
	Departments    []string `form:"department"`
	Interests      []string `form:"interest"`
	Search         string   `form:"q"`
	Sort           string   `form:"sort"`
	BookmarkedOnly bool     `form:"bookmarked"`
	Page           int      `form:"page" validate:"omitempty,min=1"`
	PageSize       int      `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// BookmarkToggleResponse reports the bookmark state after a toggle.
type BookmarkToggleResponse struct {
	MentorID   int   `json:"mentorId"`
	Bookmarked bool  `json:"bookmarked"`
	Bookmarks  []int `json:"bookmarks"`
}

// DepartmentResponse is a department with its icon.
type DepartmentResponse struct {
	directory.Department
	MentorCount int `json:"mentorCount"`
}
