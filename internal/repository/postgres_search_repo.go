package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dohyun/newstalk/internal/model"
)

// PostgresSearchRepo 는 PostgreSQL 을 사용한 검색 기록 리포지토리.
type PostgresSearchRepo struct {
	db *sql.DB
}

// NewPostgresSearchRepo 는 PostgresSearchRepo 를 생성한다.
func NewPostgresSearchRepo(db *sql.DB) *PostgresSearchRepo {
	return &PostgresSearchRepo{db: db}
}

// CreateSearch 는 새 검색 기록을 생성한다.
// 생성 시각은 DB 의 DEFAULT now() 로 부여되고 RETURNING 으로 회수한다.
func (r *PostgresSearchRepo) CreateSearch(ctx context.Context, keyword string) (*model.SearchRecord, error) {
	rec := &model.SearchRecord{
		ID:      uuid.New().String(),
		Keyword: keyword,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO searches (id, keyword) VALUES ($1, $2) RETURNING created_at`,
		rec.ID, rec.Keyword,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("검색 기록 생성에 실패했습니다: %w", err)
	}

	return rec, nil
}

// CreateNewsItems 는 뉴스 행을 단일 INSERT 배치로 생성한다.
// items 가 비어 있으면 아무것도 하지 않고 0 을 반환한다.
func (r *PostgresSearchRepo) CreateNewsItems(ctx context.Context, searchID string, items []model.NewsItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	// 다행 INSERT 쿼리 구축: ($1,$2,...), ($7,$8,...) ...
	var sb strings.Builder
	sb.WriteString(`INSERT INTO news_items (id, search_id, title, link, snippet, display_link) VALUES `)

	args := make([]interface{}, 0, len(items)*6)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args,
			uuid.New().String(), searchID,
			item.Title, item.Link, item.Snippet, item.DisplayLink,
		)
	}

	result, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("뉴스 행 생성에 실패했습니다: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		// lib/pq 는 RowsAffected 를 지원하므로 실제로는 도달하지 않는다
		return len(items), nil
	}
	return int(count), nil
}

// ListWithNews 는 검색 기록을 최신순으로 조회하고, 각 기록의 뉴스 행을 결합한다.
func (r *PostgresSearchRepo) ListWithNews(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
	query := `SELECT id, keyword, created_at FROM searches`
	args := []interface{}{}
	argIndex := 1

	// 키워드 필터: 대소문자 무시 부분 일치
	if keyword != "" {
		query += fmt.Sprintf(" WHERE keyword ILIKE $%d", argIndex)
		args = append(args, "%"+keyword+"%")
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIndex)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("검색 기록 조회에 실패했습니다: %w", err)
	}
	defer rows.Close()

	results := make([]model.SearchWithNews, 0)
	index := make(map[string]int)
	ids := make([]string, 0)

	for rows.Next() {
		var swn model.SearchWithNews
		if err := rows.Scan(&swn.ID, &swn.Keyword, &swn.CreatedAt); err != nil {
			return nil, fmt.Errorf("검색 기록 행 읽기에 실패했습니다: %w", err)
		}
		swn.NewsItems = make([]model.NewsRecord, 0)
		index[swn.ID] = len(results)
		ids = append(ids, swn.ID)
		results = append(results, swn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("검색 기록 순회에 실패했습니다: %w", err)
	}

	if len(ids) == 0 {
		return results, nil
	}

	// 자식 뉴스 행을 한 번에 조회해 부모에 결합한다
	newsRows, err := r.db.QueryContext(ctx,
		`SELECT id, search_id, title, link, snippet, display_link, created_at
		 FROM news_items
		 WHERE search_id = ANY($1)
		 ORDER BY created_at ASC, id ASC`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("뉴스 행 조회에 실패했습니다: %w", err)
	}
	defer newsRows.Close()

	for newsRows.Next() {
		var nr model.NewsRecord
		var snippet, displayLink sql.NullString

		if err := newsRows.Scan(
			&nr.ID, &nr.SearchID, &nr.Title, &nr.Link,
			&snippet, &displayLink, &nr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("뉴스 행 읽기에 실패했습니다: %w", err)
		}

		nr.Snippet = nullStringValue(snippet)
		nr.DisplayLink = nullStringValue(displayLink)

		if i, ok := index[nr.SearchID]; ok {
			results[i].NewsItems = append(results[i].NewsItems, nr)
		}
	}
	if err := newsRows.Err(); err != nil {
		return nil, fmt.Errorf("뉴스 행 순회에 실패했습니다: %w", err)
	}

	return results, nil
}

// DeleteSearch 는 검색 기록을 삭제한다. 뉴스 행은 ON DELETE CASCADE 로 함께 삭제된다.
// 대상이 존재하지 않아도(0건 삭제) 성공으로 다룬다.
func (r *PostgresSearchRepo) DeleteSearch(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("검색 기록 삭제에 실패했습니다: %w", err)
	}
	return nil
}

// CountAll 은 searches / news_items 테이블의 전체 건수를 반환한다.
func (r *PostgresSearchRepo) CountAll(ctx context.Context) (int, int, error) {
	var searches, newsItems int

	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM searches`).Scan(&searches); err != nil {
		return 0, 0, fmt.Errorf("searches 건수 조회에 실패했습니다: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM news_items`).Scan(&newsItems); err != nil {
		return 0, 0, fmt.Errorf("news_items 건수 조회에 실패했습니다: %w", err)
	}

	return searches, newsItems, nil
}

// nullStringValue 는 sql.NullString 에서 값을 꺼낸다. NULL 은 빈 문자열로 다룬다.
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// compile-time interface check
var _ SearchRepository = (*PostgresSearchRepo)(nil)
