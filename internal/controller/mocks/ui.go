// Package mocks provides testify mocks for the controller package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"conform.dev/pkg/conform/internal/controller"
	m "conform.dev/pkg/conform/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI whose expectations are asserted when the test ends.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	ui := &MockUI{}
	ui.Mock.Test(t)

	t.Cleanup(func() { ui.AssertExpectations(t) })

	return ui
}

var _ controller.UI = (*MockUI)(nil)

func (u *MockUI) StartSuite(ctx context.Context, suite string, options ...controller.StartOption) {
	u.Called(ctx, suite, options)
}

func (u *MockUI) CaseStarted(ctx context.Context, path m.Path) {
	u.Called(ctx, path)
}

func (u *MockUI) CaseCompleted(ctx context.Context, path m.Path, result m.TestResult) {
	u.Called(ctx, path, result)
}

func (u *MockUI) FinishSuite(ctx context.Context) {
	u.Called(ctx)
}

func (u *MockUI) DisplayReport(ctx context.Context, report m.Report, detail bool) {
	u.Called(ctx, report, detail)
}

func (u *MockUI) DisplayMismatchDiff(ctx context.Context, path m.Path, diff string) {
	u.Called(ctx, path, diff)
}

func (u *MockUI) DisplayDelta(ctx context.Context, delta m.Delta) {
	u.Called(ctx, delta)
}

func (u *MockUI) DisplayWarning(ctx context.Context, format string, args ...any) {
	u.Called(ctx, format, args)
}

func (u *MockUI) DisplaySummary(ctx context.Context, outcomes []m.Outcome) {
	u.Called(ctx, outcomes)
}

func (u *MockUI) DisplayCorpora(ctx context.Context, summaries []m.CorpusSummary) {
	u.Called(ctx, summaries)
}

func (u *MockUI) DisplaySnapshots(ctx context.Context, reports []m.Report) {
	u.Called(ctx, reports)
}
