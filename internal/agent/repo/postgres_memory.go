package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

// EmbeddingDimensions is the width of the embedding column.
const EmbeddingDimensions = 768

// MemoryRecord is one long-term memory row. Embedding is nil when the
// embedder was unavailable at write time; such rows are still found by the
// recency fallback.
type MemoryRecord struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    string           `gorm:"type:varchar(128);not null;index"`
	ThreadID  string           `gorm:"type:varchar(128);index"`
	Kind      string           `gorm:"type:varchar(16);not null"`
	Text      string           `gorm:"type:text;not null"`
	Tags      string           `gorm:"type:text"`
	Embedding *pgvector.Vector `gorm:"type:vector(768)"` // EmbeddingDimensions
	CreatedAt time.Time        `gorm:"autoCreateTime;index"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}

// PostgresMemoryStore is the semantic long-term memory: facts are embedded on
// write and searched by cosine distance.
type PostgresMemoryStore struct {
	db       *gorm.DB
	embedder Embedder
}

func NewPostgresMemoryStore(db *gorm.DB, embedder Embedder) *PostgresMemoryStore {
	return &PostgresMemoryStore{db: db, embedder: embedder}
}

// Migrate enables pgvector and creates the table.
func (p *PostgresMemoryStore) Migrate(ctx context.Context) error {
	db := p.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return errx.WrapDatabase(err)
	}
	if err := db.AutoMigrate(&MemoryRecord{}); err != nil {
		return errx.WrapDatabase(err)
	}
	return nil
}

// Search returns the nearest facts to query, most recent first. Without a
// query embedding it degrades to the most recent facts.
func (p *PostgresMemoryStore) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	q := p.db.WithContext(ctx).Where("user_id = ?", userID).Limit(limit)

	vec, err := p.embed(ctx, query)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("query embedding failed; using recent memory")
	}
	if vec != nil {
		q = q.Where("embedding IS NOT NULL").Order(gorm.Expr("embedding <=> ?", *vec))
	} else {
		q = q.Order("created_at DESC")
	}

	var rows []MemoryRecord
	if err := q.Find(&rows).Error; err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to search memory records")
		return nil, errx.WrapDatabase(err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Text)
	}
	return out, nil
}

func (p *PostgresMemoryStore) AppendTurn(ctx context.Context, userID, threadID, userText, _ string) error {
	if strings.TrimSpace(userText) == "" {
		return nil
	}
	return p.insert(ctx, MemoryRecord{
		UserID:   userID,
		ThreadID: threadID,
		Kind:     kindTurn,
		Text:     turnFact(userText),
	})
}

func (p *PostgresMemoryStore) RecordMilestone(ctx context.Context, userID, threadID, text string, tags []string) error {
	return p.insert(ctx, MemoryRecord{
		UserID:   userID,
		ThreadID: threadID,
		Kind:     kindMilestone,
		Text:     text,
		Tags:     strings.Join(tags, ","),
	})
}

func (p *PostgresMemoryStore) DeleteAll(ctx context.Context) error {
	res := p.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MemoryRecord{})
	if res.Error != nil {
		logx.Error().Err(res.Error).Msg("failed to delete memory records")
		return errx.WrapDatabase(res.Error)
	}
	logx.Info().Int64("deleted", res.RowsAffected).Msg("memory records deleted")
	return nil
}

func (p *PostgresMemoryStore) insert(ctx context.Context, rec MemoryRecord) error {
	vec, err := p.embed(ctx, rec.Text)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", rec.UserID).Msg("fact embedding failed; storing without vector")
	}
	rec.Embedding = vec

	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		logx.Error().Err(err).Str("user_id", rec.UserID).Msg("failed to insert memory record")
		return errx.WrapDatabase(err)
	}
	return nil
}

func (p *PostgresMemoryStore) embed(ctx context.Context, text string) (*pgvector.Vector, error) {
	if p.embedder == nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	values, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(values) != EmbeddingDimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, column expects %d", len(values), EmbeddingDimensions)
	}
	v := pgvector.NewVector(values)
	return &v, nil
}

var _ model.MemoryStore = (*PostgresMemoryStore)(nil)
