package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/delivery-settlement-ledger/internal/reconciliation"
)

const (
	// ReportCollectionName is the name of the reconciliation report collection in MongoDB
	ReportCollectionName = "reconciliation_reports"
)

// ReportRepository implements the reconciliation.ReportRepository interface for MongoDB
type ReportRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReportRepository creates a new MongoDB reconciliation report repository
func NewReportRepository(logger *slog.Logger, db *mongo.Database) reconciliation.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a reconciliation run report
func (r *ReportRepository) Create(ctx context.Context, report *reconciliation.Report) error {
	collection := r.db.Collection(ReportCollectionName)

	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		r.logger.Error("Failed to store reconciliation report",
			"report_id", report.ID.String(),
			"company_id", report.CompanyID.String(),
			"error", err)
		return fmt.Errorf("failed to store reconciliation report: %w", err)
	}

	return nil
}

// GetByCompanyID retrieves reports for a company, most recent first
func (r *ReportRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*reconciliation.Report, error) {
	collection := r.db.Collection(ReportCollectionName)

	filter := bson.M{"company_id": companyID}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "ran_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("Failed to query reconciliation reports",
			"company_id", companyID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to query reconciliation reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*reconciliation.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reconciliation reports: %w", err)
	}

	return reports, nil
}
