package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// AnalysesRepo stores career analysis documents in Mongo.
type AnalysesRepo struct {
	coll *mongo.Collection
}

func NewAnalysesRepo(db *mongo.Database) *AnalysesRepo {
	return &AnalysesRepo{coll: db.Collection("career_analyses")}
}

type analysisDoc struct {
	ID        string                 `bson:"_id"`
	UserID    string                 `bson:"user_id"`
	Status    string                 `bson:"status"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty"`
	Profile   map[string]interface{} `bson:"profile,omitempty"`
	Report    map[string]interface{} `bson:"report,omitempty"`
	Error     string                 `bson:"error,omitempty"`
	CreatedAt time.Time              `bson:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

func (r *AnalysesRepo) Save(ctx context.Context, j *domain.AnalysisJob) error {
	doc := analysisDoc{
		ID:        j.ID.String(),
		UserID:    j.UserID.String(),
		Status:    j.Status,
		Metadata:  j.Metadata,
		Profile:   j.Profile,
		Report:    j.Report,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", doc.ID, err)
	}
	return nil
}

func (r *AnalysesRepo) Get(ctx context.Context, id uuid.UUID) (*domain.AnalysisJob, error) {
	var doc analysisDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	jid, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt analysis id %q: %w", doc.ID, err)
	}
	uid, _ := uuid.Parse(doc.UserID)

	return &domain.AnalysisJob{
		ID:        jid,
		UserID:    uid,
		Status:    doc.Status,
		Metadata:  doc.Metadata,
		Profile:   doc.Profile,
		Report:    doc.Report,
		Error:     doc.Error,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// RecentSummaries returns compact summaries of the user's latest
// completed analyses. They feed the next analysis as history context.
func (r *AnalysesRepo) RecentSummaries(ctx context.Context, userID uuid.UUID, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 3
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{
			"report.target_role":            1,
			"report.executive_summary.text": 1,
			"created_at":                    1,
		})

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID.String(), "status": domain.StatusCompleted}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]interface{}(d))
	}
	return out, nil
}
