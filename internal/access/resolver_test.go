package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/apperr"
)

type fakeSource struct {
	grants map[uint][]string
	calls  int
	err    error
}

func (f *fakeSource) RolePermissions(ctx context.Context, userID uint) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	perms, ok := f.grants[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return perms, nil
}

func TestGuestIsAlwaysDenied(t *testing.T) {
	src := &fakeSource{grants: map[uint][]string{1: {string(Wildcard)}}}
	r := NewResolver(src)

	for _, c := range Capabilities() {
		d, err := r.Authorize(context.Background(), Guest(), c)
		require.NoError(t, err)
		assert.False(t, d.Allowed, c)
		assert.Equal(t, "insufficient permission", d.Reason)
	}

	// A guest token carrying an id still never reaches the graph.
	d, err := r.Authorize(context.Background(), User(1, RoleGuest), UserCreate)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, src.calls)
}

func TestAdminIsAllowedWithoutLookup(t *testing.T) {
	src := &fakeSource{err: errors.New("store unavailable")}
	r := NewResolver(src)

	for _, c := range Capabilities() {
		d, err := r.Authorize(context.Background(), User(7, RoleAdmin), c)
		require.NoError(t, err)
		assert.True(t, d.Allowed, c)
	}
	assert.Zero(t, src.calls)
}

func TestGrantedCapabilities(t *testing.T) {
	src := &fakeSource{grants: map[uint][]string{
		1: {string(IdeaCreate)},
		2: {string(IdeaGetAll), string(Wildcard)},
		3: {},
	}}
	r := NewResolver(src)
	ctx := context.Background()

	d, err := r.Authorize(ctx, User(1, "staff"), IdeaCreate)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(ctx, User(1, "staff"), IdeaDelete)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.ErrorIs(t, d.Err(), apperr.ErrUnauthorized)

	d, err = r.Authorize(ctx, User(2, "coordinator"), RoleDelete)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "wildcard matches regardless of position")

	d, err = r.Authorize(ctx, User(3, "empty"), IdeaGetAll)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	assert.Equal(t, 4, src.calls, "every check reads the store")
}

func TestRoleNamesAreCaseSensitive(t *testing.T) {
	src := &fakeSource{grants: map[uint][]string{1: {}}}
	r := NewResolver(src)

	d, err := r.Authorize(context.Background(), User(1, "admin"), UserCreate)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, src.calls)
}

func TestUnknownUserIsNotFound(t *testing.T) {
	r := NewResolver(&fakeSource{grants: map[uint][]string{}})

	_, err := r.Authorize(context.Background(), User(42, "staff"), IdeaCreate)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = r.Authorize(context.Background(), Principal{Role: "staff"}, IdeaCreate)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewResolver(&fakeSource{err: boom})

	_, err := r.Authorize(context.Background(), User(1, "staff"), IdeaCreate)
	require.ErrorIs(t, err, boom)
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, allow.Err())
	err := deny("insufficient permission").Err()
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "insufficient permission", apperr.Message(err))
}
