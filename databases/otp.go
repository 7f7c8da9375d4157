package databases

// go generate: mockery --name OtpDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadwatch/accident-tracker-api/models"
)

const otpCollectionName = "otpChallenges"

// OtpDatabase contains the methods to use with the otp challenge database
type OtpDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.OtpChallenge, error)
	InsertOne(ctx context.Context, challenge models.OtpChallenge, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type otpDatabase struct {
	db DatabaseHelper
}

// NewOtpDatabase initializes a new instance of otp database with the provided db connection
func NewOtpDatabase(db DatabaseHelper) OtpDatabase {
	return &otpDatabase{
		db: db,
	}
}

func (o *otpDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.OtpChallenge, error) {
	challenge := &models.OtpChallenge{}
	err := o.db.Collection(otpCollectionName).FindOne(ctx, filter, opts...).Decode(&challenge)
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

func (o *otpDatabase) InsertOne(ctx context.Context, challenge models.OtpChallenge, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return o.db.Collection(otpCollectionName).InsertOne(ctx, challenge, opts...)
}

func (o *otpDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return o.db.Collection(otpCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (o *otpDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return o.db.Collection(otpCollectionName).DeleteMany(ctx, filter, opts...)
}
