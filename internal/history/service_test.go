package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dohyun/newstalk/internal/model"
)

// mockSearchRepo 는 repository.SearchRepository 의 목 구현.
type mockSearchRepo struct {
	listWithNewsFn func(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error)
	deleteSearchFn func(ctx context.Context, id string) error
	deleteCalls    int
}

func (m *mockSearchRepo) CreateSearch(ctx context.Context, keyword string) (*model.SearchRecord, error) {
	return nil, nil
}

func (m *mockSearchRepo) CreateNewsItems(ctx context.Context, searchID string, items []model.NewsItem) (int, error) {
	return 0, nil
}

func (m *mockSearchRepo) ListWithNews(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
	if m.listWithNewsFn != nil {
		return m.listWithNewsFn(ctx, limit, keyword)
	}
	return []model.SearchWithNews{}, nil
}

func (m *mockSearchRepo) DeleteSearch(ctx context.Context, id string) error {
	m.deleteCalls++
	if m.deleteSearchFn != nil {
		return m.deleteSearchFn(ctx, id)
	}
	return nil
}

func (m *mockSearchRepo) CountAll(ctx context.Context) (int, int, error) {
	return 0, 0, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- List 테스트 ---

func TestService_List_DefaultLimit(t *testing.T) {
	var gotLimit int
	repo := &mockSearchRepo{
		listWithNewsFn: func(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
			gotLimit = limit
			return []model.SearchWithNews{}, nil
		},
	}
	svc := NewService(repo, testLogger())

	if _, err := svc.List(context.Background(), 0, ""); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotLimit != defaultHistoryLimit {
		t.Errorf("limit = %d, want %d", gotLimit, defaultHistoryLimit)
	}

	if _, err := svc.List(context.Background(), -5, ""); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotLimit != defaultHistoryLimit {
		t.Errorf("limit = %d, want %d", gotLimit, defaultHistoryLimit)
	}
}

func TestService_List_ClampsLimitToMax(t *testing.T) {
	var gotLimit int
	repo := &mockSearchRepo{
		listWithNewsFn: func(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
			gotLimit = limit
			return []model.SearchWithNews{}, nil
		},
	}
	svc := NewService(repo, testLogger())

	if _, err := svc.List(context.Background(), 500, ""); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotLimit != maxHistoryLimit {
		t.Errorf("limit = %d, want %d", gotLimit, maxHistoryLimit)
	}
}

func TestService_List_PassesTrimmedKeyword(t *testing.T) {
	var gotKeyword string
	repo := &mockSearchRepo{
		listWithNewsFn: func(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
			gotKeyword = keyword
			return []model.SearchWithNews{}, nil
		},
	}
	svc := NewService(repo, testLogger())

	if _, err := svc.List(context.Background(), 10, "  검색어  "); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotKeyword != "검색어" {
		t.Errorf("keyword = %q, want %q", gotKeyword, "검색어")
	}
}

func TestService_List_WrapsRepositoryError(t *testing.T) {
	repo := &mockSearchRepo{
		listWithNewsFn: func(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewService(repo, testLogger())

	_, err := svc.List(context.Background(), 10, "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePersistence {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodePersistence)
	}
	if apiErr.Message != "히스토리 조회 중 오류가 발생했습니다." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

// --- Delete 테스트 ---

func TestService_Delete_EmptyID(t *testing.T) {
	repo := &mockSearchRepo{}
	svc := NewService(repo, testLogger())

	err := svc.Delete(context.Background(), "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeSearchIDRequired {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeSearchIDRequired)
	}
	if repo.deleteCalls != 0 {
		t.Errorf("DeleteSearch should not be called, got %d calls", repo.deleteCalls)
	}
}

func TestService_Delete_Success(t *testing.T) {
	var gotID string
	repo := &mockSearchRepo{
		deleteSearchFn: func(ctx context.Context, id string) error {
			gotID = id
			return nil
		},
	}
	svc := NewService(repo, testLogger())

	if err := svc.Delete(context.Background(), "search-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if gotID != "search-1" {
		t.Errorf("id = %q, want %q", gotID, "search-1")
	}
}

func TestService_Delete_WrapsRepositoryError(t *testing.T) {
	repo := &mockSearchRepo{
		deleteSearchFn: func(ctx context.Context, id string) error {
			return errors.New("db down")
		},
	}
	svc := NewService(repo, testLogger())

	err := svc.Delete(context.Background(), "search-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodePersistence {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodePersistence)
	}
}
