package databases

// go generate: mockery --name DriverDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadwatch/accident-tracker-api/models"
)

const driverCollectionName = "drivers"

// DriverDatabase contains the methods to use with the driver database
type DriverDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Driver, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Driver, error)
	InsertOne(ctx context.Context, driver models.Driver, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type driverDatabase struct {
	db DatabaseHelper
}

// NewDriverDatabase initializes a new instance of driver database with the provided db connection
func NewDriverDatabase(db DatabaseHelper) DriverDatabase {
	return &driverDatabase{
		db: db,
	}
}

func (d *driverDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Driver, error) {
	driver := &models.Driver{}
	err := d.db.Collection(driverCollectionName).FindOne(ctx, filter).Decode(&driver)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func (d *driverDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Driver, error) {
	cursor, err := d.db.Collection(driverCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var drivers []models.Driver
	if err := cursor.Decode(&drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (d *driverDatabase) InsertOne(ctx context.Context, driver models.Driver, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return d.db.Collection(driverCollectionName).InsertOne(ctx, driver, opts...)
}

func (d *driverDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return d.db.Collection(driverCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (d *driverDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return d.db.Collection(driverCollectionName).UpdateMany(ctx, filter, update, opts...)
}

func (d *driverDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return d.db.Collection(driverCollectionName).CountDocuments(ctx, filter, opts...)
}
