package databases

// go generate: mockery --name AccidentReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadwatch/accident-tracker-api/models"
)

const accidentReportCollectionName = "accidentReports"

// AccidentReportDatabase contains the methods to use with the accident report database
type AccidentReportDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.AccidentReport, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AccidentReport, error)
	InsertOne(ctx context.Context, report models.AccidentReport, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (ChangeStreamHelper, error)
}

type accidentReportDatabase struct {
	db DatabaseHelper
}

// NewAccidentReportDatabase initializes a new instance of accident report database with the provided db connection
func NewAccidentReportDatabase(db DatabaseHelper) AccidentReportDatabase {
	return &accidentReportDatabase{
		db: db,
	}
}

func (a *accidentReportDatabase) FindOne(ctx context.Context, filter interface{}) (*models.AccidentReport, error) {
	report := &models.AccidentReport{}
	err := a.db.Collection(accidentReportCollectionName).FindOne(ctx, filter).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (a *accidentReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AccidentReport, error) {
	cursor, err := a.db.Collection(accidentReportCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var reports []models.AccidentReport
	if err := cursor.Decode(&reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *accidentReportDatabase) InsertOne(ctx context.Context, report models.AccidentReport, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(accidentReportCollectionName).InsertOne(ctx, report, opts...)
}

func (a *accidentReportDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return a.db.Collection(accidentReportCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (a *accidentReportDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return a.db.Collection(accidentReportCollectionName).CountDocuments(ctx, filter, opts...)
}

func (a *accidentReportDatabase) Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (ChangeStreamHelper, error) {
	return a.db.Collection(accidentReportCollectionName).Watch(ctx, pipeline, opts...)
}
