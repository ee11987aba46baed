// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"io"
	"os"

	"github.com/stretchr/testify/mock"
	m "mutok.dev/pkg/mutok/internal/model"
)

// MockCorpusStore is a mock of adapter.CorpusStore.
type MockCorpusStore struct {
	mock.Mock
}

// NewMockCorpusStore creates a MockCorpusStore that asserts its expectations on cleanup.
func NewMockCorpusStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCorpusStore {
	store := &MockCorpusStore{}
	store.Mock.Test(t)
	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

// HashesInFold provides a mock function.
func (s *MockCorpusStore) HashesInFold(ctx context.Context, fold int) ([]string, error) {
	ret := s.Called(ctx, fold)

	hashes, _ := ret.Get(0).([]string)

	return hashes, ret.Error(1)
}

// FilesInFold provides a mock function.
func (s *MockCorpusStore) FilesInFold(ctx context.Context, fold int) ([]m.CorpusFile, error) {
	ret := s.Called(ctx, fold)

	files, _ := ret.Get(0).([]m.CorpusFile)

	return files, ret.Error(1)
}

// Get provides a mock function.
func (s *MockCorpusStore) Get(ctx context.Context, hash string) ([]m.TokenIndex, error) {
	ret := s.Called(ctx, hash)

	tokens, _ := ret.Get(0).([]m.TokenIndex)

	return tokens, ret.Error(1)
}

// FoldIDs provides a mock function.
func (s *MockCorpusStore) FoldIDs(ctx context.Context) ([]int, error) {
	ret := s.Called(ctx)

	folds, _ := ret.Get(0).([]int)

	return folds, ret.Error(1)
}

// Close provides a mock function.
func (s *MockCorpusStore) Close() error {
	return s.Called().Error(0)
}

// MockModelAdapter is a mock of adapter.ModelAdapter.
type MockModelAdapter struct {
	mock.Mock
}

// NewMockModelAdapter creates a MockModelAdapter that asserts its expectations on cleanup.
func NewMockModelAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockModelAdapter {
	model := &MockModelAdapter{}
	model.Mock.Test(t)
	t.Cleanup(func() { model.AssertExpectations(t) })

	return model
}

// IsOkay provides a mock function.
func (a *MockModelAdapter) IsOkay(ctx context.Context, path m.Path) (bool, error) {
	ret := a.Called(ctx, path)
	return ret.Bool(0), ret.Error(1)
}

// Detect provides a mock function.
func (a *MockModelAdapter) Detect(ctx context.Context, path m.Path) ([]m.Detection, error) {
	ret := a.Called(ctx, path)

	detections, _ := ret.Get(0).([]m.Detection)

	return detections, ret.Error(1)
}

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
//
// WriteTempFile runs the write callback against Sink when one is set, so
// tests can inspect rendered programs.
type MockSourceFSAdapter struct {
	mock.Mock

	Sink io.Writer
}

// NewMockSourceFSAdapter creates a MockSourceFSAdapter that asserts its expectations on cleanup.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	fs := &MockSourceFSAdapter{}
	fs.Mock.Test(t)
	t.Cleanup(func() { fs.AssertExpectations(t) })

	return fs
}

// FileInfo provides a mock function.
func (a *MockSourceFSAdapter) FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error) {
	ret := a.Called(ctx, path)

	info, _ := ret.Get(0).(os.FileInfo)

	return info, ret.Error(1)
}

// CreateTempDir provides a mock function.
func (a *MockSourceFSAdapter) CreateTempDir(ctx context.Context, pattern string) (m.Path, error) {
	ret := a.Called(ctx, pattern)
	return ret.Get(0).(m.Path), ret.Error(1)
}

// WriteTempFile provides a mock function.
func (a *MockSourceFSAdapter) WriteTempFile(ctx context.Context, dir m.Path, pattern string, write func(io.Writer) error) (m.Path, error) {
	if a.Sink != nil {
		if err := write(a.Sink); err != nil {
			return "", err
		}
	}

	ret := a.Called(ctx, dir, pattern)

	return ret.Get(0).(m.Path), ret.Error(1)
}

// Remove provides a mock function.
func (a *MockSourceFSAdapter) Remove(ctx context.Context, path m.Path) error {
	return a.Called(ctx, path).Error(0)
}

// RemoveAll provides a mock function.
func (a *MockSourceFSAdapter) RemoveAll(ctx context.Context, path m.Path) error {
	return a.Called(ctx, path).Error(0)
}

// HashFile provides a mock function.
func (a *MockSourceFSAdapter) HashFile(ctx context.Context, path m.Path) (string, error) {
	ret := a.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a MockReportStore that asserts its expectations on cleanup.
func NewMockReportStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportStore {
	store := &MockReportStore{}
	store.Mock.Test(t)
	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

// SaveSummary provides a mock function.
func (s *MockReportStore) SaveSummary(ctx context.Context, path m.Path, summary m.Summary) error {
	return s.Called(ctx, path, summary).Error(0)
}

// LoadSummary provides a mock function.
func (s *MockReportStore) LoadSummary(ctx context.Context, path m.Path) (m.Summary, error) {
	ret := s.Called(ctx, path)
	return ret.Get(0).(m.Summary), ret.Error(1)
}
