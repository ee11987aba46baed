// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"mutok.dev/pkg/mutok/internal/controller"
	m "mutok.dev/pkg/mutok/internal/model"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI that asserts its expectations on cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	ui := &MockUI{}
	ui.Mock.Test(t)
	t.Cleanup(func() { ui.AssertExpectations(t) })

	return ui
}

// Start provides a mock function. Options are not forwarded to Called.
func (u *MockUI) Start(ctx context.Context, _ ...controller.StartOption) error {
	return u.Called(ctx).Error(0)
}

// Close provides a mock function.
func (u *MockUI) Close(ctx context.Context) {
	u.Called(ctx)
}

// Wait provides a mock function.
func (u *MockUI) Wait(ctx context.Context) {
	u.Called(ctx)
}

// DisplayEvaluationStart provides a mock function.
func (u *MockUI) DisplayEvaluationStart(ctx context.Context, fold, files, mutationsPerKind, threads int) {
	u.Called(ctx, fold, files, mutationsPerKind, threads)
}

// DisplayMutationResult provides a mock function.
func (u *MockUI) DisplayMutationResult(ctx context.Context, report m.Report) {
	u.Called(ctx, report)
}

// DisplayFileCompleted provides a mock function.
func (u *MockUI) DisplayFileCompleted(ctx context.Context, hash string) {
	u.Called(ctx, hash)
}

// DisplayFileSkipped provides a mock function.
func (u *MockUI) DisplayFileSkipped(ctx context.Context, hash string, err error) {
	u.Called(ctx, hash, err)
}

// DisplaySummary provides a mock function.
func (u *MockUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	u.Called(ctx, summary)
}

// DisplayCorpus provides a mock function.
func (u *MockUI) DisplayCorpus(ctx context.Context, folds []m.FoldInfo) {
	u.Called(ctx, folds)
}

// DisplayWindows provides a mock function.
func (u *MockUI) DisplayWindows(ctx context.Context, windows []m.Window, vocab m.Vocabulary) {
	u.Called(ctx, windows, vocab)
}
