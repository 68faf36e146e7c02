// Package mocks provides testify mocks for the adapter package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"conform.dev/pkg/conform/internal/adapter"
	m "conform.dev/pkg/conform/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockToolchain is a mock implementation of adapter.Toolchain.
type MockToolchain struct {
	mock.Mock
}

// NewMockToolchain creates a MockToolchain whose expectations are asserted when the test ends.
func NewMockToolchain(t testingT) *MockToolchain {
	tc := &MockToolchain{}
	tc.Mock.Test(t)

	t.Cleanup(func() { tc.AssertExpectations(t) })

	return tc
}

var _ adapter.Toolchain = (*MockToolchain)(nil)

func (tc *MockToolchain) Parse(ctx context.Context, source string, st m.SourceType) adapter.Diagnostics {
	args := tc.Called(ctx, source, st)
	return diagnostics(args, 0)
}

func (tc *MockToolchain) Analyze(ctx context.Context, source string, st m.SourceType) adapter.Diagnostics {
	args := tc.Called(ctx, source, st)
	return diagnostics(args, 0)
}

func (tc *MockToolchain) Generate(ctx context.Context, source string, st m.SourceType) (string, adapter.Diagnostics) {
	args := tc.Called(ctx, source, st)
	return args.String(0), diagnostics(args, 1)
}

func (tc *MockToolchain) Transform(ctx context.Context, source string, st m.SourceType, opts adapter.TransformOptions) (string, adapter.Diagnostics) {
	args := tc.Called(ctx, source, st, opts)
	return args.String(0), diagnostics(args, 1)
}

func (tc *MockToolchain) Minify(ctx context.Context, source string, st m.SourceType) (string, adapter.Diagnostics) {
	args := tc.Called(ctx, source, st)
	return args.String(0), diagnostics(args, 1)
}

func (tc *MockToolchain) PrettyPrint(ctx context.Context, source string, st m.SourceType) (string, adapter.Diagnostics) {
	args := tc.Called(ctx, source, st)
	return args.String(0), diagnostics(args, 1)
}

func diagnostics(args mock.Arguments, index int) adapter.Diagnostics {
	if d, ok := args.Get(index).(adapter.Diagnostics); ok {
		return d
	}

	return nil
}

// MockSnapshotStore is a mock implementation of adapter.SnapshotStore.
type MockSnapshotStore struct {
	mock.Mock
}

// NewMockSnapshotStore creates a MockSnapshotStore whose expectations are asserted when the test ends.
func NewMockSnapshotStore(t testingT) *MockSnapshotStore {
	store := &MockSnapshotStore{}
	store.Mock.Test(t)

	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

var _ adapter.SnapshotStore = (*MockSnapshotStore)(nil)

func (s *MockSnapshotStore) Load(ctx context.Context, suite string) (string, bool, error) {
	args := s.Called(ctx, suite)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (s *MockSnapshotStore) Save(ctx context.Context, suite string, content string) error {
	args := s.Called(ctx, suite, content)
	return args.Error(0)
}

func (s *MockSnapshotStore) List(ctx context.Context) ([]string, error) {
	args := s.Called(ctx)

	suites, _ := args.Get(0).([]string)

	return suites, args.Error(1)
}

// MockRuntimeClient is a mock implementation of adapter.RuntimeClient.
type MockRuntimeClient struct {
	mock.Mock
}

// NewMockRuntimeClient creates a MockRuntimeClient whose expectations are asserted when the test ends.
func NewMockRuntimeClient(t testingT) *MockRuntimeClient {
	client := &MockRuntimeClient{}
	client.Mock.Test(t)

	t.Cleanup(func() { client.AssertExpectations(t) })

	return client
}

var _ adapter.RuntimeClient = (*MockRuntimeClient)(nil)

func (c *MockRuntimeClient) Execute(ctx context.Context, exec adapter.RuntimeExecution) (string, error) {
	args := c.Called(ctx, exec)
	return args.String(0), args.Error(1)
}

// MockRuntimeProcessAdapter is a mock implementation of adapter.RuntimeProcessAdapter.
type MockRuntimeProcessAdapter struct {
	mock.Mock
}

// NewMockRuntimeProcessAdapter creates a MockRuntimeProcessAdapter whose expectations are asserted when the test ends.
func NewMockRuntimeProcessAdapter(t testingT) *MockRuntimeProcessAdapter {
	processes := &MockRuntimeProcessAdapter{}
	processes.Mock.Test(t)

	t.Cleanup(func() { processes.AssertExpectations(t) })

	return processes
}

var _ adapter.RuntimeProcessAdapter = (*MockRuntimeProcessAdapter)(nil)

func (a *MockRuntimeProcessAdapter) Start(ctx context.Context, spec adapter.ProcessSpec) (adapter.RuntimeProcess, error) {
	args := a.Called(ctx, spec)

	process, _ := args.Get(0).(adapter.RuntimeProcess)

	return process, args.Error(1)
}

// MockRuntimeProcess is a mock implementation of adapter.RuntimeProcess.
type MockRuntimeProcess struct {
	mock.Mock
}

// NewMockRuntimeProcess creates a MockRuntimeProcess whose expectations are asserted when the test ends.
func NewMockRuntimeProcess(t testingT) *MockRuntimeProcess {
	process := &MockRuntimeProcess{}
	process.Mock.Test(t)

	t.Cleanup(func() { process.AssertExpectations(t) })

	return process
}

var _ adapter.RuntimeProcess = (*MockRuntimeProcess)(nil)

func (p *MockRuntimeProcess) WaitReady(ctx context.Context) error {
	args := p.Called(ctx)
	return args.Error(0)
}

func (p *MockRuntimeProcess) Kill() error {
	args := p.Called()
	return args.Error(0)
}
