package handler

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"ideahub/internal/apperr"
)

func TestPageQuery(t *testing.T) {
	assert.Equal(t, defaultPageLimit, pageQuery{}.limit())
	assert.Equal(t, 0, pageQuery{}.offset())
	assert.Equal(t, 50, pageQuery{Page: 2, PageLimit: 25}.offset())

	assert.Equal(t, int64(0), pages(0, 10))
	assert.Equal(t, int64(1), pages(10, 10))
	assert.Equal(t, int64(2), pages(11, 10))
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestCheckDocuments(t *testing.T) {
	tests := []struct {
		name  string
		files []*multipart.FileHeader
		ok    bool
	}{
		{"none", nil, true},
		{"pdf", []*multipart.FileHeader{fileHeader("a.pdf", "application/pdf", 10)}, true},
		{"upper case jpg", []*multipart.FileHeader{fileHeader("A.JPG", "image/jpeg", 10)}, true},
		{"word", []*multipart.FileHeader{fileHeader("a.doc", "application/msword", 10)}, true},
		{"mismatched type", []*multipart.FileHeader{fileHeader("a.png", "application/pdf", 10)}, false},
		{"unsupported", []*multipart.FileHeader{fileHeader("a.gif", "image/gif", 10)}, false},
		{"too large", []*multipart.FileHeader{fileHeader("a.pdf", "application/pdf", 101)}, false},
		{"too many", []*multipart.FileHeader{
			fileHeader("1.pdf", "application/pdf", 1), fileHeader("2.pdf", "application/pdf", 1),
			fileHeader("3.pdf", "application/pdf", 1), fileHeader("4.pdf", "application/pdf", 1),
			fileHeader("5.pdf", "application/pdf", 1), fileHeader("6.pdf", "application/pdf", 1),
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDocuments(tt.files, 100)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrInvalidState)
		})
	}
}

func TestCheckDepartmentName(t *testing.T) {
	assert.ErrorIs(t, checkDepartmentName("Unassigned"), apperr.ErrInvalidState)
	assert.ErrorIs(t, checkDepartmentName(" unassigned "), apperr.ErrInvalidState)
	assert.NoError(t, checkDepartmentName("History"))
}
