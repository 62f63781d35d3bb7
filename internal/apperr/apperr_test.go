package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("load role: %w", NotFound("user not found"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, http.StatusNotFound, Status(err))
	assert.Equal(t, "user not found", Message(err))
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Unauthorized("insufficient permission"), http.StatusUnauthorized},
		{InvalidState("cannot modify default roles"), http.StatusBadRequest},
		{Conflict("role already exists"), http.StatusConflict},
		{Internal("database error", errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestInternalMessageIsHidden(t *testing.T) {
	err := Internal("database error", errors.New("secret dsn"))
	assert.Equal(t, "Internal Server Error", Message(err))
	assert.Contains(t, err.Error(), "secret dsn")
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "role"))
	assert.ErrorIs(t, FromDB(gorm.ErrRecordNotFound, "role"), ErrNotFound)
	assert.ErrorIs(t, FromDB(gorm.ErrDuplicatedKey, "role"), ErrConflict)
	assert.Equal(t, "role not found", Message(FromDB(gorm.ErrRecordNotFound, "role")))

	guard := InvalidState("cannot modify default roles")
	assert.Same(t, guard, FromDB(guard, "role"))
	assert.Equal(t, http.StatusInternalServerError, Status(FromDB(errors.New("boom"), "role")))
}
