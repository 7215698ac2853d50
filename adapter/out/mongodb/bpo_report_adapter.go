package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

const reportCollection = "routing_reports"

// ReportAdapter implements out.RoutingReportRepository on MongoDB. Reports
// are immutable documents; Latest picks the newest by generation time.
type ReportAdapter struct {
	collection *mongo.Collection
}

// NewReportAdapter creates a new ReportAdapter.
func NewReportAdapter(client *mongo.Client, database string) *ReportAdapter {
	return &ReportAdapter{
		collection: client.Database(database).Collection(reportCollection),
	}
}

// Save inserts a routing report document.
func (a *ReportAdapter) Save(ctx context.Context, report *domain.RoutingReport) error {
	_, err := a.collection.InsertOne(ctx, report)
	return err
}

// Latest returns the most recently generated report, or nil when no report
// has been built yet.
func (a *ReportAdapter) Latest(ctx context.Context) (*domain.RoutingReport, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var report domain.RoutingReport
	err := a.collection.FindOne(ctx, bson.D{}, opts).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &report, nil
}

// Ensure ReportAdapter implements out.RoutingReportRepository
var _ out.RoutingReportRepository = (*ReportAdapter)(nil)
