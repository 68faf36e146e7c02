// Package mocks provides testify mocks for the domain package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"conform.dev/pkg/conform/internal/domain"
	m "conform.dev/pkg/conform/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted when the test ends.
func NewMockWorkflow(t testingT) *MockWorkflow {
	wf := &MockWorkflow{}
	wf.Mock.Test(t)

	t.Cleanup(func() { wf.AssertExpectations(t) })

	return wf
}

var _ domain.Workflow = (*MockWorkflow)(nil)

func (w *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) error {
	return w.Called(ctx, args).Error(0)
}

func (w *MockWorkflow) RunRuntime(ctx context.Context, args domain.RuntimeArgs) error {
	return w.Called(ctx, args).Error(0)
}

func (w *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	return w.Called(ctx, args).Error(0)
}

func (w *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return w.Called(ctx, args).Error(0)
}

// MockTool is a mock implementation of domain.Tool.
type MockTool struct {
	mock.Mock
}

// NewMockTool creates a MockTool whose expectations are asserted when the test ends.
func NewMockTool(t testingT) *MockTool {
	tool := &MockTool{}
	tool.Mock.Test(t)

	t.Cleanup(func() { tool.AssertExpectations(t) })

	return tool
}

var _ domain.Tool = (*MockTool)(nil)

func (tool *MockTool) Name() string {
	return tool.Called().String(0)
}

func (tool *MockTool) Execute(ctx context.Context, unit m.TestUnit) m.TestResult {
	args := tool.Called(ctx, unit)

	result, _ := args.Get(0).(m.TestResult)

	return result
}

// MockCorpus is a mock implementation of domain.Corpus.
type MockCorpus struct {
	mock.Mock
}

// NewMockCorpus creates a MockCorpus whose expectations are asserted when the test ends.
func NewMockCorpus(t testingT) *MockCorpus {
	corpus := &MockCorpus{}
	corpus.Mock.Test(t)

	t.Cleanup(func() { corpus.AssertExpectations(t) })

	return corpus
}

var _ domain.Corpus = (*MockCorpus)(nil)

func (c *MockCorpus) Name() string {
	return c.Called().String(0)
}

func (c *MockCorpus) Discover(ctx context.Context) ([]m.Fixture, error) {
	args := c.Called(ctx)

	fixtures, _ := args.Get(0).([]m.Fixture)

	return fixtures, args.Error(1)
}
