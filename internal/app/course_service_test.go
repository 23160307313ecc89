package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyboard/internal/cache"
)

func TestCreateCourse_GetOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "alice")

	course, created, err := f.courses.Create(ctx, alice, CreateCourseInput{Code: "cs101", Name: "Intro"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "CS101", course.Code)

	again, created, err := f.courses.Create(ctx, alice, CreateCourseInput{Code: "CS101", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, course.ID, again.ID)
	assert.Equal(t, "Intro", again.Name)

	_, _, err = f.courses.Create(ctx, alice, CreateCourseInput{Code: "c!", Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = f.courses.Create(ctx, nil, CreateCourseInput{Code: "CS102", Name: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDeleteCourse_AnyAuthenticatedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "alice")
	bob, _ := f.register(t, "bob")

	course, _, err := f.courses.Create(ctx, alice, CreateCourseInput{Code: "CS101", Name: "Intro"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.courses.Delete(ctx, nil, course.ID), ErrUnauthenticated)
	require.NoError(t, f.courses.Delete(ctx, bob, course.ID))
	assert.ErrorIs(t, f.courses.Delete(ctx, bob, course.ID), ErrNotFound)
}

func TestListCourses_CacheInvalidatedOnWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "alice")

	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f.courses.cache = cache.NewCourseCache(client, time.Minute)

	list, err := f.courses.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, _, err = f.courses.Create(ctx, alice, CreateCourseInput{Code: "CS101", Name: "Intro"})
	require.NoError(t, err)

	list, err = f.courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists("studyboard:courses"))

	require.NoError(t, f.courses.Delete(ctx, alice, list[0].ID))
	assert.False(t, mr.Exists("studyboard:courses"))

	list, err = f.courses.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListCourses_FallsBackWhenCacheDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.register(t, "alice")
	_, _, err := f.courses.Create(ctx, alice, CreateCourseInput{Code: "CS101", Name: "Intro"})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f.courses.cache = cache.NewCourseCache(client, time.Minute)
	mr.Close()

	list, err := f.courses.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
