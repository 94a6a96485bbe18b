package github

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trivago/tgo/tcontainer"

	"github.com/uwu-tools/gh-issue-client/internal/clock"
)

const (
	testOwner = "octocat"
	testRepo  = "hello-world"
)

// newFakeIssue creates one issue on a fresh fake backend and wraps it.
func newFakeIssue(t *testing.T) (Github, *Smart) {
	t.Helper()

	gh := NewFake(clock.NewClockMock())
	issue, err := gh.Repos().Get(testOwner, testRepo).Issues().Create(
		context.Background(), "Title 1", "Issue body 1",
	)
	require.NoError(t, err)

	return gh, NewSmart(issue)
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		expected bool
	}{
		{"open issue", "open", true},
		{"closed issue", "closed", false},
		{"unexpected state", "draft", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &IssueMock{}
			issue.On("JSON", mock.Anything).Return(tcontainer.MarshalMap{"state": tt.state}, nil)

			isOpen, err := NewSmart(issue).IsOpen(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, isOpen)
		})
	}
}

func TestOpenCloseRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, issue := newFakeIssue(t)

	require.NoError(t, issue.Close(ctx))

	state, err := issue.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "closed", state)

	isOpen, err := issue.IsOpen(ctx)
	require.NoError(t, err)
	assert.False(t, isOpen)

	require.NoError(t, issue.Open(ctx))

	state, err = issue.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "open", state)
}

func TestStringFieldMissing(t *testing.T) {
	tests := []struct {
		name string
		obj  tcontainer.MarshalMap
	}{
		{"null title", tcontainer.MarshalMap{"title": nil}},
		{"absent title", tcontainer.MarshalMap{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &IssueMock{}
			issue.On("JSON", mock.Anything).Return(tt.obj, nil)
			issue.On("Number").Return(42)

			_, err := NewSmart(issue).Title(context.Background())

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, 42, fieldErr.Number)
			assert.Equal(t, "title", fieldErr.Field)
			assert.Contains(t, err.Error(), "#42")
		})
	}
}

func TestMutatorPayloads(t *testing.T) {
	tests := []struct {
		name     string
		action   func(context.Context, *Smart) error
		expected tcontainer.MarshalMap
	}{
		{
			"set title",
			func(ctx context.Context, s *Smart) error { return s.SetTitle(ctx, "New Title") },
			tcontainer.MarshalMap{"title": "New Title"},
		},
		{
			"set body",
			func(ctx context.Context, s *Smart) error { return s.SetBody(ctx, "New body") },
			tcontainer.MarshalMap{"body": "New body"},
		},
		{
			"set state",
			func(ctx context.Context, s *Smart) error { return s.SetState(ctx, "closed") },
			tcontainer.MarshalMap{"state": "closed"},
		},
		{
			"open",
			func(ctx context.Context, s *Smart) error { return s.Open(ctx) },
			tcontainer.MarshalMap{"state": "open"},
		},
		{
			"close",
			func(ctx context.Context, s *Smart) error { return s.Close(ctx) },
			tcontainer.MarshalMap{"state": "closed"},
		},
		{
			"assign",
			func(ctx context.Context, s *Smart) error { return s.Assign(ctx, "hobo") },
			tcontainer.MarshalMap{"assignee": "hobo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &IssueMock{}
			issue.On("Patch", mock.Anything, tt.expected).Return(nil)

			require.NoError(t, tt.action(context.Background(), NewSmart(issue)))

			// Exactly one patch, carrying exactly one field.
			issue.AssertExpectations(t)
			issue.AssertNumberOfCalls(t, "Patch", 1)
			assert.Len(t, tt.expected, 1)
		})
	}
}

func TestPullResolution(t *testing.T) {
	ctx := context.Background()
	_, issue := newFakeIssue(t)

	require.NoError(t, issue.Patch(ctx, tcontainer.MarshalMap{
		"pull_request": tcontainer.MarshalMap{
			"url": "https://api.github.com/repos/octocat/hello-world/pulls/42",
		},
	}))

	isPull, err := issue.IsPull(ctx)
	require.NoError(t, err)
	assert.True(t, isPull)

	pull, err := issue.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, pull.Number())
}

func TestPullWithoutLinkage(t *testing.T) {
	tests := []struct {
		name string
		obj  tcontainer.MarshalMap
	}{
		{"no pull_request object", tcontainer.MarshalMap{"state": "open"}},
		{"empty pull_request object", tcontainer.MarshalMap{"pull_request": tcontainer.MarshalMap{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := &IssueMock{}
			issue.On("JSON", mock.Anything).Return(tt.obj, nil)
			issue.On("Number").Return(7)

			isPull, err := NewSmart(issue).IsPull(context.Background())
			require.NoError(t, err)
			assert.False(t, isPull)

			_, err = NewSmart(issue).Pull(context.Background())
			assert.ErrorIs(t, err, ErrNotPull)

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, 7, fieldErr.Number)
		})
	}
}

func TestURLs(t *testing.T) {
	issue := &IssueMock{}
	issue.On("JSON", mock.Anything).Return(tcontainer.MarshalMap{
		"url":      "https://api.github.com/repos/octocat/hello-world/issues/1",
		"html_url": "https://github.com/octocat/hello-world/issues/1",
	}, nil)

	ctx := context.Background()
	smart := NewSmart(issue)

	apiURL, err := smart.URL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "api.github.com", apiURL.Host)

	htmlURL, err := smart.HTMLURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "github.com", htmlURL.Host)
}

func TestURLMalformed(t *testing.T) {
	issue := &IssueMock{}
	issue.On("JSON", mock.Anything).Return(tcontainer.MarshalMap{
		"url": "http://[::1]:namedport",
	}, nil)
	issue.On("Number").Return(13)

	_, err := NewSmart(issue).URL(context.Background())

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "url", fieldErr.Field)
	assert.NotNil(t, fieldErr.Err)
}

func TestCreatedAt(t *testing.T) {
	_, issue := newFakeIssue(t)

	created, err := issue.CreatedAt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, clock.NewClockMock().Now().Unix(), created.Unix())
}

func TestCreatedAtMalformed(t *testing.T) {
	issue := &IssueMock{}
	issue.On("JSON", mock.Anything).Return(tcontainer.MarshalMap{
		"created_at": "yesterday",
	}, nil)
	issue.On("Number").Return(5)

	_, err := NewSmart(issue).CreatedAt(context.Background())

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "created_at", fieldErr.Field)
}

func TestAuthor(t *testing.T) {
	_, issue := newFakeIssue(t)

	author, err := issue.Author(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FakeLogin, author.Login())
}

func TestAssignee(t *testing.T) {
	ctx := context.Background()
	_, issue := newFakeIssue(t)

	assigned, err := issue.HasAssignee(ctx)
	require.NoError(t, err)
	assert.False(t, assigned)

	_, err = issue.Assignee(ctx)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "assignee", fieldErr.Field)

	require.NoError(t, issue.Assign(ctx, "hobo"))

	assigned, err = issue.HasAssignee(ctx)
	require.NoError(t, err)
	assert.True(t, assigned)

	assignee, err := issue.Assignee(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hobo", assignee.Login())
}

func TestMutatorThenAccessorRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, issue := newFakeIssue(t)

	// Two decorators over the same issue always agree: nothing is cached.
	gh := issue.Repo().Github()
	other := NewSmart(gh.Repos().Get(testOwner, testRepo).Issues().Get(issue.Number()))

	require.NoError(t, issue.SetTitle(ctx, "Renamed"))
	title, err := other.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", title)

	require.NoError(t, issue.SetBody(ctx, "Rewritten"))
	body, err := other.Body(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rewritten", body)
}

func TestReadFailurePropagates(t *testing.T) {
	transportErr := errors.New("connection reset")

	issue := &IssueMock{}
	issue.On("JSON", mock.Anything).Return(nil, transportErr)

	_, err := NewSmart(issue).State(context.Background())
	assert.ErrorIs(t, err, transportErr)

	var fieldErr *FieldError
	assert.False(t, errors.As(err, &fieldErr))
}

func TestSmartDelegation(t *testing.T) {
	_, issue := newFakeIssue(t)

	assert.Equal(t, 1, issue.Number())
	assert.Equal(t, "octocat/hello-world", issue.Repo().FullName())
	assert.Equal(t, "octocat/hello-world#1", issue.String())
	assert.NotNil(t, issue.Comments())
	assert.NotNil(t, issue.Labels())
	assert.NotNil(t, issue.Events())
}
