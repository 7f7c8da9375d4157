// Package auth issues and verifies the one-time codes behind the driver
// login flow. The Verifier interface keeps the HTTP flow independent of
// whether codes come from a fixed mock value or stored challenges.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/roadwatch/accident-tracker-api/databases"
	"github.com/roadwatch/accident-tracker-api/models"
)

// ErrInvalidCode is returned for any code the verifier does not accept. The
// login flow stays where it is; there is no attempt counter or lockout.
var ErrInvalidCode = errors.New("invalid otp code")

// ChallengeTTL is how long an issued challenge stays verifiable
const ChallengeTTL = 5 * time.Minute

// Verifier checks a one-time code for a phone number
type Verifier interface {
	Verify(ctx context.Context, phone, code string) error
}

// StaticVerifier accepts a single fixed code regardless of phone number.
// It preserves the mock login behavior; the code defaults to 123456 and can
// be overridden with OTP_ACCEPT_CODE.
type StaticVerifier struct {
	Code string
}

// NewStaticVerifier builds the mock verifier from the environment
func NewStaticVerifier() StaticVerifier {
	code := os.Getenv("OTP_ACCEPT_CODE")
	if code == "" {
		code = "123456"
	}
	return StaticVerifier{Code: code}
}

// Verify accepts iff the code equals the fixed value
func (v StaticVerifier) Verify(_ context.Context, _ string, code string) error {
	if subtle.ConstantTimeCompare([]byte(code), []byte(v.Code)) != 1 {
		return ErrInvalidCode
	}
	return nil
}

// ChallengeVerifier checks codes against stored, bcrypt-hashed challenges.
// A challenge verifies at most once and only before its expiry.
type ChallengeVerifier struct {
	DB databases.OtpDatabase
}

// Verify looks up the live challenge for the phone number, compares the
// code against its hash and consumes it on success
func (v ChallengeVerifier) Verify(ctx context.Context, phone, code string) error {
	challenge, err := v.DB.FindOne(ctx, bson.M{
		"phone":    phone,
		"consumed": false,
		"expiresAt": bson.M{
			"$gt": time.Now(),
		},
	})
	if err != nil {
		return ErrInvalidCode
	}

	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		return ErrInvalidCode
	}

	_, err = v.DB.UpdateOne(ctx, bson.M{"_id": challenge.ID}, bson.M{"$set": bson.M{"consumed": true}})
	return err
}

// IssueChallenge generates a fresh 6-digit code, stores its hash with the
// standard TTL and returns the plain code for delivery
func IssueChallenge(ctx context.Context, db databases.OtpDatabase, phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	_, err = db.InsertOne(ctx, models.OtpChallenge{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(ChallengeTTL),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
