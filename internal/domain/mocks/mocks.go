// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"mutok.dev/pkg/mutok/internal/domain"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow that asserts its expectations on cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	wf := &MockWorkflow{}
	wf.Mock.Test(t)
	t.Cleanup(func() { wf.AssertExpectations(t) })

	return wf
}

// Evaluate provides a mock function.
func (w *MockWorkflow) Evaluate(ctx context.Context, args domain.EvaluateArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Mutate provides a mock function.
func (w *MockWorkflow) Mutate(ctx context.Context, args domain.MutateArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Windows provides a mock function.
func (w *MockWorkflow) Windows(ctx context.Context, args domain.WindowsArgs) error {
	return w.Called(ctx, args).Error(0)
}

// List provides a mock function.
func (w *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	return w.Called(ctx, args).Error(0)
}
