package github

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/trivago/tgo/tcontainer"
)

// IssueMock is a drop-in Issue for tests that need to script reads or
// assert the exact partial objects a caller patches.
type IssueMock struct {
	mock.Mock
}

func (m *IssueMock) String() string {
	return m.Called().String(0)
}

func (m *IssueMock) Repo() Repo {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(Repo)
	}
	return nil
}

func (m *IssueMock) Number() int {
	return m.Called().Int(0)
}

func (m *IssueMock) Comments() Comments {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(Comments)
	}
	return nil
}

func (m *IssueMock) Labels() Labels {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(Labels)
	}
	return nil
}

func (m *IssueMock) Events() Events {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(Events)
	}
	return nil
}

func (m *IssueMock) JSON(ctx context.Context) (tcontainer.MarshalMap, error) {
	args := m.Called(ctx)
	var obj tcontainer.MarshalMap
	if v := args.Get(0); v != nil {
		obj = v.(tcontainer.MarshalMap)
	}
	return obj, args.Error(1)
}

func (m *IssueMock) Patch(ctx context.Context, partial tcontainer.MarshalMap) error {
	return m.Called(ctx, partial).Error(0)
}
